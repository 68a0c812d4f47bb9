package state

// Setting names a per-flow, per-tab render preference.
type Setting int

const (
	PrettyView Setting = iota
	FullContents
)

func (s Setting) String() string {
	switch s {
	case PrettyView:
		return "prettyview"
	case FullContents:
		return "fullcontents"
	default:
		return "unknown"
	}
}

// Key addresses one stored setting.
type Key struct {
	FlowID  string
	Tab     Tab
	Setting Setting
}

// ViewStore holds render preferences per flow. Entries for a flow are created
// on first write and dropped by Evict.
type ViewStore interface {
	Get(Key) (interface{}, bool)
	Set(Key, interface{})
	ViewMode(flowID string, tab Tab) (string, bool)
	SetViewMode(flowID string, tab Tab, mode string)
	FullContents(flowID string, tab Tab) bool
	SetFullContents(flowID string, tab Tab, on bool)
	Evict(flowID string)
	Flows() int
}

type settingKey struct {
	tab     Tab
	setting Setting
}

type viewStore struct {
	flows map[string]map[settingKey]interface{}
}

// NewViewStore returns an empty in-memory store.
func NewViewStore() ViewStore {
	return &viewStore{flows: make(map[string]map[settingKey]interface{})}
}

// Get returns the stored value. The detail tab never holds settings.
func (v *viewStore) Get(key Key) (interface{}, bool) {
	if key.Tab == TabDetail || !key.Tab.Valid() {
		return nil, false
	}
	settings, ok := v.flows[key.FlowID]
	if !ok {
		return nil, false
	}
	value, ok := settings[settingKey{tab: key.Tab, setting: key.Setting}]
	return value, ok
}

// Set stores value, ignoring keys without a flow or with the detail tab.
func (v *viewStore) Set(key Key, value interface{}) {
	if key.FlowID == "" || key.Tab == TabDetail || !key.Tab.Valid() {
		return
	}
	settings, ok := v.flows[key.FlowID]
	if !ok {
		settings = make(map[settingKey]interface{}, 2)
		v.flows[key.FlowID] = settings
	}
	settings[settingKey{tab: key.Tab, setting: key.Setting}] = value
}

// ViewMode reports the view mode picked for a flow's tab, if any.
func (v *viewStore) ViewMode(flowID string, tab Tab) (string, bool) {
	value, ok := v.Get(Key{FlowID: flowID, Tab: tab, Setting: PrettyView})
	if !ok {
		return "", false
	}
	mode, ok := value.(string)
	return mode, ok && mode != ""
}

// SetViewMode records the view mode for a flow's tab.
func (v *viewStore) SetViewMode(flowID string, tab Tab, mode string) {
	v.Set(Key{FlowID: flowID, Tab: tab, Setting: PrettyView}, mode)
}

// FullContents reports whether truncation is off for a flow's tab.
func (v *viewStore) FullContents(flowID string, tab Tab) bool {
	value, ok := v.Get(Key{FlowID: flowID, Tab: tab, Setting: FullContents})
	if !ok {
		return false
	}
	on, _ := value.(bool)
	return on
}

// SetFullContents turns truncation off or back on for a flow's tab.
func (v *viewStore) SetFullContents(flowID string, tab Tab, on bool) {
	v.Set(Key{FlowID: flowID, Tab: tab, Setting: FullContents}, on)
}

// Evict drops every setting held for flowID.
func (v *viewStore) Evict(flowID string) {
	delete(v.flows, flowID)
}

// Flows counts the flows with at least one setting.
func (v *viewStore) Flows() int {
	return len(v.flows)
}
