package internal

import "testing"

func TestArg_String(t *testing.T) {
	tests := []struct {
		arg  Arg
		want string
	}{
		{Arg{Kind: ArgInt, Int: -3}, "-3"},
		{Arg{Kind: ArgFixed, Fixed: 10.5}, "10.5"},
		{Arg{Kind: ArgString, Str: "hi"}, `"hi"`},
		{Arg{Kind: ArgNil}, "nil"},
		{Arg{Kind: ArgFD, Int: 7}, "fd 7"},
		{Arg{Kind: ArgArray}, "array"},
		{Arg{Kind: ArgObject, Object: 5, Interface: "wl_surface"}, "wl_surface@5"},
		{Arg{Kind: ArgObject, Object: 5}, "@5"},
		{Arg{Kind: ArgNewID, Object: 2, Interface: "wl_registry"}, "new id wl_registry@2"},
		{Arg{Kind: ArgNewID, Object: 3}, "new id [unknown]@3"},
	}
	for _, tt := range tests {
		if got := tt.arg.String(); got != tt.want {
			t.Errorf("Arg.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestMessageRecord_NewIDArg(t *testing.T) {
	rec := &MessageRecord{
		Name: "create_buffer",
		Args: []Arg{
			{Kind: ArgNewID, Object: 8, Interface: "wl_buffer"},
			{Kind: ArgInt, Int: 0},
		},
	}
	arg, pos := rec.NewIDArg()
	if arg == nil || pos != 0 {
		t.Fatalf("NewIDArg() = (%v, %d), want the first argument", arg, pos)
	}
	if arg.Object != 8 {
		t.Errorf("NewIDArg().Object = %d, want 8", arg.Object)
	}

	plain := &MessageRecord{Name: "commit"}
	if arg, pos := plain.NewIDArg(); arg != nil || pos != -1 {
		t.Errorf("NewIDArg() on plain record = (%v, %d), want (nil, -1)", arg, pos)
	}
}

func TestMessageRecord_String(t *testing.T) {
	rec := &MessageRecord{
		Sent: true, Object: 1, Name: "get_registry",
		Args: []Arg{{Kind: ArgNewID, Object: 2, Interface: "wl_registry"}},
	}
	want := "-> @1.get_registry(new id wl_registry@2)"
	if got := rec.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
