package appprofiles

import (
	"context"

	"github.com/spf13/cobra"
)

// Sink receives the responses of a plugin session.
//
// Rows of one result set are numbered from zero in the order they are appended.
type Sink interface {
	Append(id uint32, name, description, icon string) error
	Finished() error
	Close() error
	Fill(text string) error
}

// Spawner starts a launch line as a detached process.
type Spawner interface {
	Spawn(line string) error
}

// Options represents a struct that defines command-line flags, env vars, and settings file keys.
type Options interface {
	Attach(*cobra.Command) error
}

// ValidatableOptions extends Options with validation capabilities.
//
// The Validate method is called automatically during Unmarshal().
type ValidatableOptions interface {
	Validate(context.Context) []error
}

// TransformableOptions extends Options with transformation capabilities.
//
// The Transform method is called automatically during Unmarshal() before validation.
type TransformableOptions interface {
	Transform(context.Context) error
}
