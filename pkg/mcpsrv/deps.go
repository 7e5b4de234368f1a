package mcpsrv

import (
	"github.com/usestring/harbind/internal/config"
	"github.com/usestring/harbind/internal/match"
	"github.com/usestring/harbind/internal/pipeline"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Config  *config.Config
	Store   *pipeline.Store
	Matcher *match.Matcher
}
