package input

import (
	"context"
	"fmt"

	"github.com/vk/archetype/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// Request describes one input the interpreter needs a value for.
type Request struct {
	Name    string
	Prompt  string
	Type    schema.InputType
	Choices []string

	// Default is the input's declared default, already resolved against the
	// current scope. HasDefault distinguishes "no default" from a default
	// that happens to be empty.
	Default    cty.Value
	HasDefault bool
}

// Response is either a concrete value or the accept-default signal.
type Response struct {
	AcceptDefault bool
	Value         cty.Value
}

// Source obtains a value for an input request. Ask blocks until a value or
// accept-default is returned; this layer imposes no timeout.
type Source interface {
	Ask(ctx context.Context, req *Request) (*Response, error)
}

// MissingRequiredPropertyError reports an unattended run that reached an
// input with no batch value and no declared default.
type MissingRequiredPropertyError struct {
	Name string
}

func (e *MissingRequiredPropertyError) Error() string {
	return fmt.Sprintf("missing required property %q: no value supplied and the input declares no default", e.Name)
}
