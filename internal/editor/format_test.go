package editor

import "testing"

func newTestDispatcher(t *testing.T, fragment string) (*Dispatcher, *Document, *int) {
	t.Helper()
	d := NewDocument()
	if err := d.SetHTML(fragment); err != nil {
		t.Fatalf("SetHTML() error = %v", err)
	}
	changes := 0
	disp := NewDispatcher(d, func() { changes++ })
	return disp, d, &changes
}

func checkExclusive(t *testing.T, st FormatState) {
	t.Helper()
	aligns := 0
	for _, f := range []bool{st.AlignLeft, st.AlignCenter, st.AlignRight} {
		if f {
			aligns++
		}
	}
	if aligns != 1 {
		t.Errorf("state = %+v, want exactly one alignment flag", st)
	}
	if st.UnorderedList && st.OrderedList {
		t.Errorf("state = %+v, both list flags active", st)
	}
}

func TestDispatcherAlignmentIdempotent(t *testing.T) {
	disp, d, _ := newTestDispatcher(t, "<div>text</div>")
	d.Focus()
	d.Select(0, 0, 0)

	first := disp.Exec(CmdAlignCenter, "")
	second := disp.Exec(CmdAlignCenter, "")

	if first != second {
		t.Errorf("repeated alignment changed state: %+v then %+v", first, second)
	}
	if !second.AlignCenter {
		t.Errorf("state = %+v, want center active", second)
	}
	checkExclusive(t, second)
}

func TestDispatcherListToggleLaw(t *testing.T) {
	disp, d, _ := newTestDispatcher(t, "<div>item</div>")
	d.Focus()
	d.Select(0, 0, 0)

	st := disp.Exec(CmdUnorderedList, "")
	if !st.UnorderedList {
		t.Errorf("state = %+v, want unordered active", st)
	}

	st = disp.Exec(CmdUnorderedList, "")
	if st.UnorderedList {
		t.Errorf("state = %+v, second invoke must toggle off", st)
	}

	st = disp.Exec(CmdOrderedList, "")
	if !st.OrderedList || st.UnorderedList {
		t.Errorf("state = %+v, want ordered only", st)
	}

	st = disp.Exec(CmdUnorderedList, "")
	if !st.UnorderedList || st.OrderedList {
		t.Errorf("state = %+v, engaging unordered must clear ordered", st)
	}
}

func TestDispatcherGroupsNeverBothEngaged(t *testing.T) {
	disp, d, _ := newTestDispatcher(t, "<div>text</div>")
	d.Focus()
	d.Select(0, 0, 4)

	seq := []Command{
		CmdBold, CmdUnorderedList, CmdAlignCenter, CmdOrderedList,
		CmdAlignRight, CmdItalic, CmdUnorderedList, CmdAlignLeft,
		CmdOrderedList, CmdOrderedList,
	}
	for _, cmd := range seq {
		checkExclusive(t, disp.Exec(cmd, ""))
	}

	// Engaging alignment must have cleared the list group and vice
	// versa at each step; spot-check the final state.
	st := disp.State()
	if st.OrderedList || st.UnorderedList {
		t.Errorf("state = %+v, final toggle-off should leave no list", st)
	}
}

func TestDispatcherUnfocusedCommandRefocuses(t *testing.T) {
	disp, d, changes := newTestDispatcher(t, "<div>hello</div>")
	d.Select(0, 0, 5)
	// Surface never focused: command must not touch content, must not
	// schedule a save, and must restore focus for subsequent typing.
	before := d.HTML()

	st := disp.Exec(CmdBold, "")

	if d.HTML() != before {
		t.Error("unfocused command mutated content")
	}
	if *changes != 0 {
		t.Error("unfocused command scheduled a save")
	}
	if !d.Focused() {
		t.Error("surface was not refocused")
	}
	if st.Bold {
		t.Errorf("state = %+v, nothing should have been applied", st)
	}
}

func TestDispatcherNoSurface(t *testing.T) {
	disp := NewDispatcher(nil, nil)

	// Must be a logged no-op, not a panic.
	st := disp.Exec(CmdBold, "")
	if st != (FormatState{}) {
		t.Errorf("state = %+v, want zero state", st)
	}
}

func TestDispatcherStyleTogglesIndependent(t *testing.T) {
	disp, d, _ := newTestDispatcher(t, "<div>hello</div>")
	d.Focus()
	d.Select(0, 0, 5)

	st := disp.Exec(CmdBold, "")
	st = disp.Exec(CmdItalic, "")

	if !st.Bold || !st.Italic {
		t.Errorf("state = %+v, style toggles must not clear each other", st)
	}

	st = disp.Exec(CmdBold, "")
	if st.Bold || !st.Italic {
		t.Errorf("state = %+v, toggling bold off must keep italic", st)
	}
}

func TestDispatcherFontSize(t *testing.T) {
	disp, d, changes := newTestDispatcher(t, "<div>hello</div>")
	d.Focus()
	d.Select(0, 0, 5)

	before := disp.State()
	st := disp.Exec(CmdFontSize, "large")

	if st != before {
		t.Errorf("font size changed format state: %+v -> %+v", before, st)
	}
	if *changes != 1 {
		t.Errorf("changes = %d, font size must still schedule a save", *changes)
	}

	if _, err := ParseFontSize("huge"); err == nil {
		t.Error("expected error for unknown font size name")
	}
}

func TestDispatcherCommandsTriggerPersistence(t *testing.T) {
	disp, d, changes := newTestDispatcher(t, "<div>hello</div>")
	d.Focus()
	d.Select(0, 0, 5)

	disp.Exec(CmdBold, "")
	disp.Exec(CmdAlignCenter, "")
	disp.Exec(CmdUnorderedList, "")

	if *changes != 3 {
		t.Errorf("changes = %d, every applied command must schedule a save", *changes)
	}
}
