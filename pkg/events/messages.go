package events

import (
	"github.com/bjartek/mailprobe/pkg/history"
	"github.com/bjartek/mailprobe/pkg/sampler"
)

// SendCompleteMsg is sent when a send or dry run has finished and was recorded
type SendCompleteMsg struct {
	Entry history.Entry
}

// PlanSavedMsg is sent after the test plan was written to disk. Config is the
// snapshot that was written.
type PlanSavedMsg struct {
	Path   string
	Config *sampler.Config
	Err    error
}

// PlanLoadedMsg is sent after a test plan was read from disk
type PlanLoadedMsg struct {
	Path   string
	Config *sampler.Config
	Err    error
}
