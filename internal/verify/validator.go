package verify

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/vovakirdan/tui-lander/internal/games/lander/sim"
)

// MaxVerticalVelocity bounds |verticalVelocity| of an accepted result.
const MaxVerticalVelocity = 50.0

// Rejection is a validation failure with a client-facing reason.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return "verify: " + r.Reason
}

// Rejection reasons. Compare with errors.Is.
var (
	ErrInvalidToken            = &Rejection{Reason: "invalid token"}
	ErrMissingResult           = &Rejection{Reason: "missing result"}
	ErrInvalidAltitude         = &Rejection{Reason: "invalid altitude"}
	ErrInvalidVerticalVelocity = &Rejection{Reason: "invalid vertical velocity"}
	ErrInvalidRequest          = &Rejection{Reason: "invalid request"}
	ErrRateLimited             = &Rejection{Reason: "rate limited"}
)

// Result is a submitted landing outcome. Nil fields were absent from the request.
type Result struct {
	Altitude         *float64 `json:"altitude"`
	VerticalVelocity *float64 `json:"verticalVelocity"`
}

// NewResult builds a complete result.
func NewResult(altitude, verticalVelocity float64) Result {
	return Result{Altitude: &altitude, VerticalVelocity: &verticalVelocity}
}

// Submission is the body of a validation request.
type Submission struct {
	Result *Result `json:"result"`
	Token  string  `json:"token"`
}

// ParseSubmission decodes a request body. Only a body that is not a JSON
// object is an error: a token of the wrong type decodes as empty, a result
// that is not an object decodes with no fields, and a field that is not a
// number decodes as absent. Validate then reports the precise reason.
func ParseSubmission(data []byte) (Submission, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil || env == nil {
		return Submission{}, ErrInvalidRequest
	}

	var sub Submission
	if raw, ok := env["token"]; ok {
		if err := json.Unmarshal(raw, &sub.Token); err != nil {
			sub.Token = ""
		}
	}

	raw, ok := env["result"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return sub, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		fields = nil
	}
	sub.Result = &Result{
		Altitude:         number(fields["altitude"]),
		VerticalVelocity: number(fields["verticalVelocity"]),
	}
	return sub, nil
}

// number decodes a JSON number. Absent, null and non-numeric values give nil.
func number(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var f *float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return f
}

// Validator checks submissions against the parameters it issued.
type Validator struct {
	signer *Signer
	params sim.Params
}

// NewValidator creates a validator for one parameter set.
func NewValidator(signer *Signer, params sim.Params) *Validator {
	return &Validator{signer: signer, params: params}
}

// Params returns the parameters this validator issues tokens for.
func (v *Validator) Params() sim.Params {
	return v.params
}

// Token signs the issued parameters.
func (v *Validator) Token() (string, error) {
	return v.signer.Sign(v.params)
}

// Validate returns nil for an accepted submission or a *Rejection.
// The token is checked first, so a bad token is reported regardless of the result.
func (v *Validator) Validate(sub Submission) error {
	if !v.signer.Verify(v.params, sub.Token) {
		return ErrInvalidToken
	}
	if sub.Result == nil {
		return ErrMissingResult
	}

	maxAlt := v.params.MaxAltitude
	if maxAlt <= 0 {
		maxAlt = sim.MaxAltitude
	}
	alt := sub.Result.Altitude
	if alt == nil || !finite(*alt) || *alt < 0 || *alt > maxAlt {
		return ErrInvalidAltitude
	}

	vv := sub.Result.VerticalVelocity
	if vv == nil || !finite(*vv) || math.Abs(*vv) > MaxVerticalVelocity {
		return ErrInvalidVerticalVelocity
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
