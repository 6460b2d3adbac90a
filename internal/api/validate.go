package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gyaneshwarpardhi/funnelsim/internal/funnel"
)

// newValidator registers the funnel-specific tags.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("properties", validateProperties); err != nil {
		panic(fmt.Sprintf("api: register properties validator: %v", err))
	}
	return v
}

// validateProperties accepts strings, and numbers that are non-negative
// with rate-like names bounded to [0,1].
func validateProperties(fl validator.FieldLevel) bool {
	props, ok := fl.Field().Interface().(map[string]interface{})
	if !ok {
		return true
	}
	for name, raw := range props {
		if _, isString := raw.(string); isString {
			continue
		}
		f, ok := funnel.Number(raw)
		if !ok {
			continue
		}
		if f < 0 {
			return false
		}
		if funnel.IsRateProperty(name) && f > 1 {
			return false
		}
	}
	return true
}

// validateScenario checks struct tags, then that every connection joins known components.
func validateScenario(v *validator.Validate, s *funnel.Scenario) error {
	if err := v.Struct(s); err != nil {
		return describe(err)
	}
	return validateConnections(s.Components, s.Connections)
}

// validationError lists every problem found in one payload.
type validationError struct {
	problems []string
}

func (e *validationError) Error() string {
	return strings.Join(e.problems, "; ")
}

func validateConnections(nodes []funnel.Node, edges []funnel.Edge) error {
	ids := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = struct{}{}
	}
	var errs []string
	for i, e := range edges {
		for _, end := range []string{e.SourceID, e.TargetID} {
			if _, ok := ids[end]; !ok {
				errs = append(errs, fmt.Sprintf("connections[%d]: unknown component %q", i, end))
			}
		}
	}
	if len(errs) > 0 {
		return &validationError{problems: errs}
	}
	return nil
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return &validationError{problems: msgs}
}
