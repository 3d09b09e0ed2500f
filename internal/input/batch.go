package input

import "context"

// Batch is the unattended input source. It never prompts: any input that
// reaches it either accepts its declared default or fails the run. Batch
// values supplied on the command line are bound by the interpreter before
// the source is consulted, so reaching Batch without a default is fatal.
type Batch struct{}

// Ask implements Source.
func (b *Batch) Ask(_ context.Context, req *Request) (*Response, error) {
	if req.HasDefault {
		return &Response{AcceptDefault: true}, nil
	}
	return nil, &MissingRequiredPropertyError{Name: req.Name}
}
