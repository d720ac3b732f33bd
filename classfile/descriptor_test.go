package classfile

import (
	"errors"
	"testing"
)

func TestParseFieldDescriptor(t *testing.T) {
	tests := []struct {
		desc      string
		want      string
		primitive bool
		slots     int
	}{
		{"I", "int", true, 1},
		{"J", "long", true, 2},
		{"D", "double", true, 2},
		{"Z", "boolean", true, 1},
		{"Ljava/lang/Object;", "java.lang.Object", false, 1},
		{"[J", "long[]", false, 1},
		{"[[Ljava/util/Map$Entry;", "java.util.Map$Entry[][]", false, 1},
	}
	for _, tt := range tests {
		ft, err := ParseFieldDescriptor(tt.desc)
		if err != nil {
			t.Errorf("ParseFieldDescriptor(%q) error = %v", tt.desc, err)
			continue
		}
		if got := ft.String(); got != tt.want {
			t.Errorf("ParseFieldDescriptor(%q) = %q, want %q", tt.desc, got, tt.want)
		}
		if ft.IsPrimitive() != tt.primitive {
			t.Errorf("%q IsPrimitive() = %v", tt.desc, ft.IsPrimitive())
		}
		if ft.Slots() != tt.slots {
			t.Errorf("%q Slots() = %d, want %d", tt.desc, ft.Slots(), tt.slots)
		}
	}

	for _, bad := range []string{"", "V", "Q", "[", "L;", "Ljava/lang/String", "II", "Ljava/lang/String;I"} {
		if _, err := ParseFieldDescriptor(bad); !errors.Is(err, ErrBadDescriptor) {
			t.Errorf("ParseFieldDescriptor(%q) error = %v, want ErrBadDescriptor", bad, err)
		}
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	tests := []struct {
		desc string
		want string
		args int
	}{
		{"()V", "() void", 0},
		{"(IJ)Ljava/lang/String;", "(int, long) java.lang.String", 3},
		{"([Ljava/lang/String;)V", "(java.lang.String[]) void", 1},
		{"(DLjava/lang/Object;[D)[[I", "(double, java.lang.Object, double[]) int[][]", 4},
	}
	for _, tt := range tests {
		md, err := ParseMethodDescriptor(tt.desc)
		if err != nil {
			t.Errorf("ParseMethodDescriptor(%q) error = %v", tt.desc, err)
			continue
		}
		if got := md.String(); got != tt.want {
			t.Errorf("ParseMethodDescriptor(%q) = %q, want %q", tt.desc, got, tt.want)
		}
		if md.ArgSlots() != tt.args {
			t.Errorf("%q ArgSlots() = %d, want %d", tt.desc, md.ArgSlots(), tt.args)
		}
	}

	for _, bad := range []string{"", "V", "(", "(I", "()", "()VV", "(V)V", "(I)Q", "()Ljava/lang/String"} {
		if _, err := ParseMethodDescriptor(bad); !errors.Is(err, ErrBadDescriptor) {
			t.Errorf("ParseMethodDescriptor(%q) error = %v, want ErrBadDescriptor", bad, err)
		}
	}
}

func TestInternalToSourceName(t *testing.T) {
	if got := InternalToSourceName("java/util/Map$Entry"); got != "java.util.Map$Entry" {
		t.Errorf("InternalToSourceName() = %q", got)
	}
}
