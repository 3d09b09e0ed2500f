package input

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vk/archetype/internal/props"
	"github.com/vk/archetype/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// Console is the interactive input source: a prompt/read loop over an
// arbitrary reader/writer pair, normally stdin/stderr. Invalid answers are
// re-prompted rather than failing the run.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole returns a Console reading answers from r and writing prompts
// to w.
func NewConsole(r io.Reader, w io.Writer) *Console {
	return &Console{in: bufio.NewReader(r), out: w}
}

// Ask implements Source.
func (c *Console) Ask(ctx context.Context, req *Request) (*Response, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c.printPrompt(req)
		line, err := c.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read input for %q: %w", req.Name, err)
		}
		answer := strings.TrimSpace(line)

		if answer == "" {
			if req.HasDefault {
				return &Response{AcceptDefault: true}, nil
			}
			if err == io.EOF {
				return nil, &MissingRequiredPropertyError{Name: req.Name}
			}
			fmt.Fprintf(c.out, "A value is required for %q.\n", req.Name)
			continue
		}

		resp, ok := c.parseAnswer(req, answer)
		if ok {
			return resp, nil
		}
		if err == io.EOF {
			return nil, &MissingRequiredPropertyError{Name: req.Name}
		}
	}
}

func (c *Console) printPrompt(req *Request) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = req.Name
	}
	fmt.Fprintf(c.out, "%s", prompt)

	switch req.Type {
	case schema.InputYesNo:
		fmt.Fprint(c.out, " (y/n)")
	case schema.InputChoice, schema.InputMulti:
		fmt.Fprintln(c.out, ":")
		for i, choice := range req.Choices {
			fmt.Fprintf(c.out, "  %d) %s\n", i+1, choice)
		}
	}

	if req.HasDefault {
		if s, err := props.AsString(req.Default); err == nil {
			fmt.Fprintf(c.out, " [%s]", s)
		}
	}
	fmt.Fprint(c.out, ": ")
}

// parseAnswer validates one line of input against the request. It reports
// false when the answer is not acceptable, after telling the user why.
func (c *Console) parseAnswer(req *Request, answer string) (*Response, bool) {
	switch req.Type {
	case schema.InputYesNo:
		switch strings.ToLower(answer) {
		case "y", "yes", "true":
			return &Response{Value: cty.True}, true
		case "n", "no", "false":
			return &Response{Value: cty.False}, true
		}
		fmt.Fprintln(c.out, "Please answer y or n.")
		return nil, false

	case schema.InputChoice:
		choice, ok := c.matchChoice(req, answer)
		if !ok {
			return nil, false
		}
		return &Response{Value: cty.StringVal(choice)}, true

	case schema.InputMulti:
		parts := strings.Split(answer, ",")
		selected := make([]string, 0, len(parts))
		for _, part := range parts {
			choice, ok := c.matchChoice(req, strings.TrimSpace(part))
			if !ok {
				return nil, false
			}
			selected = append(selected, choice)
		}
		return &Response{Value: cty.StringVal(strings.Join(selected, ","))}, true

	default:
		return &Response{Value: cty.StringVal(answer)}, true
	}
}

// matchChoice accepts either the 1-based menu number or the literal choice.
func (c *Console) matchChoice(req *Request, answer string) (string, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(req.Choices) {
			return req.Choices[n-1], true
		}
		fmt.Fprintf(c.out, "Choice %d is out of range.\n", n)
		return "", false
	}
	for _, choice := range req.Choices {
		if choice == answer {
			return choice, true
		}
	}
	fmt.Fprintf(c.out, "%q is not one of the allowed choices.\n", answer)
	return "", false
}
