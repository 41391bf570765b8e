package variants

import (
	"errors"
	"fmt"
	"strings"
)

// MaxOptions is the number of options a single product may carry.
const MaxOptions = 3

var (
	// ErrTooManyOptions is returned when more than MaxOptions distinct option names remain after merging.
	ErrTooManyOptions = fmt.Errorf("A product can have a maximum of %d options.", MaxOptions)
	// ErrBlankOptionName is returned for an option whose name is empty or whitespace.
	ErrBlankOptionName = errors.New("option name may not be blank")
	// ErrBlankItemValue is returned for an item value that is empty or whitespace.
	ErrBlankItemValue = errors.New("option item may not be blank")
)

// OptionInput is one raw option entry as submitted by a client.
type OptionInput struct {
	Name  string
	Items []string
}

// Option is a normalized option: a unique name with a unique, non-empty item list.
type Option struct {
	Name  string
	Items []string
}

// Normalize merges raw options that share a name, unions their items, drops options left without
// items and enforces MaxOptions. Options keep the order in which their name was first declared and
// items keep the order in which they first appeared. Names and values are compared case-sensitively.
func Normalize(raw []OptionInput) ([]Option, error) {
	var (
		order  []string
		merged = make(map[string]*Option, len(raw))
		seen   = make(map[string]map[string]struct{}, len(raw))
	)

	for _, in := range raw {
		if strings.TrimSpace(in.Name) == "" {
			return nil, ErrBlankOptionName
		}

		opt, ok := merged[in.Name]
		if !ok {
			opt = &Option{Name: in.Name}
			merged[in.Name] = opt
			seen[in.Name] = make(map[string]struct{})
			order = append(order, in.Name)
		}

		for _, item := range in.Items {
			if strings.TrimSpace(item) == "" {
				return nil, fmt.Errorf("%w (option %q)", ErrBlankItemValue, in.Name)
			}
			if _, dup := seen[in.Name][item]; dup {
				continue
			}
			seen[in.Name][item] = struct{}{}
			opt.Items = append(opt.Items, item)
		}
	}

	options := make([]Option, 0, len(order))
	for _, name := range order {
		if opt := merged[name]; len(opt.Items) > 0 {
			options = append(options, *opt)
		}
	}

	if len(options) > MaxOptions {
		return nil, ErrTooManyOptions
	}
	return options, nil
}
