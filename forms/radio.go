package forms

// radioGroupKey scopes a radio group to (form-owner-or-document, name);
// spec.md §4.7: "scope-crossing rule: radios with the same name in different
// forms are independent groups; case-sensitive name matching."
type radioGroupKey struct {
	scopeID ID
	name    string
}

// RadioGroupIndex tracks radio-group membership discovered while seeding the
// store from the DOM, and enforces click exclusivity afterward.
type RadioGroupIndex struct {
	groupByRadio map[ID]int
	groups       [][]ID
}

func newRadioGroupIndex() *RadioGroupIndex {
	return &RadioGroupIndex{groupByRadio: make(map[ID]int)}
}

func (idx *RadioGroupIndex) ensureGroupID(byKey map[radioGroupKey]int, key radioGroupKey) int {
	if id, ok := byKey[key]; ok {
		return id
	}
	id := len(idx.groups)
	idx.groups = append(idx.groups, nil)
	byKey[key] = id
	return id
}

func (idx *RadioGroupIndex) addRadioToGroup(groupID int, radioID ID) {
	_, already := idx.groupByRadio[radioID]
	idx.groupByRadio[radioID] = groupID
	if !already {
		idx.groups[groupID] = append(idx.groups[groupID], radioID)
	}
}

// Click checks radioID and unchecks every other member of its group,
// atomically. Returns whether anything changed. A radio with no registered
// group behaves as an independent checkbox.
func (idx *RadioGroupIndex) Click(store *ValueStore, radioID ID) bool {
	groupID, ok := idx.groupByRadio[radioID]
	if !ok {
		return store.SetChecked(radioID, true)
	}
	members := idx.groups[groupID]
	changed := false
	for _, id := range members {
		if store.SetChecked(id, id == radioID) {
			changed = true
		}
	}
	return changed
}

// FormControlIndex is the seeding-time side table (radio groups today; room
// for other cross-control relationships spec.md might add later).
type FormControlIndex struct {
	Radio *RadioGroupIndex
}

func newFormControlIndex() *FormControlIndex {
	return &FormControlIndex{Radio: newRadioGroupIndex()}
}

// ClickRadio routes a radio-click event through the index.
func (idx *FormControlIndex) ClickRadio(store *ValueStore, radioID ID) bool {
	return idx.Radio.Click(store, radioID)
}
