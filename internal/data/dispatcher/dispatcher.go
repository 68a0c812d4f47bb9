package dispatcher

import (
	"fmt"

	"github.com/atomicstack/flowview/internal/backend"
	"github.com/atomicstack/flowview/internal/flow"
	"github.com/atomicstack/flowview/internal/logging"
	"github.com/atomicstack/flowview/internal/logging/events"
)

type Result struct {
	FlowsUpdated bool
	Added        int
	Updated      int
	Err          error
}

// Dispatcher merges capture snapshots into the live collection. Flows seen in
// an earlier snapshot and since deleted stay deleted. A live flow is only
// replaced when its copy on disk changed since the last snapshot, so local
// changes such as accepting or killing survive reloads, and flows with an
// open edit session keep their changes either way.
type Dispatcher struct {
	flows *flow.Collection
	// disk holds the last copy of each flow read from the capture file.
	disk map[string]*flow.Flow
}

// New starts from the flows already loaded, taken as the capture's contents.
func New(flows *flow.Collection) *Dispatcher {
	d := &Dispatcher{flows: flows, disk: make(map[string]*flow.Flow)}
	flows.Each(func(_ int, f *flow.Flow) bool {
		d.disk[f.ID] = f.Snapshot()
		return true
	})
	return d
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		logging.Log(logging.LevelWarn, fmt.Sprintf("capture reload failed: %v", evt.Err))
		res.Err = evt.Err
		return res
	}
	switch evt.Kind {
	case backend.KindFlows:
		snapshot, ok := evt.Data.([]*flow.Flow)
		if !ok {
			return res
		}
		for _, f := range snapshot {
			if f == nil {
				continue
			}
			previous, seen := d.disk[f.ID]
			d.disk[f.ID] = f.Snapshot()
			existing := d.flows.Get(f.ID)
			switch {
			case existing == nil && !seen:
				d.flows.Add(f)
				res.Added++
			case existing == nil, existing.HasBackup():
			case previous.Equal(f):
			case !existing.Equal(f):
				d.flows.Update(f)
				res.Updated++
			}
		}
		res.FlowsUpdated = res.Added > 0 || res.Updated > 0
		events.Flow.Merge(res.Added, res.Updated)
	}
	return res
}
