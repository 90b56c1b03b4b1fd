package descriptor

import "testing"

func TestTypeDescriptor_CaseInsensitiveEquality(t *testing.T) {
	a := NewType("app.UserRepository")
	b := NewType("App.userRepository")
	if !a.Equal(b) {
		t.Error("expected case-insensitive equality")
	}
	if a.Key() != b.Key() {
		t.Errorf("expected matching keys, got %q vs %q", a.Key(), b.Key())
	}
	if a.Name() != "app.UserRepository" {
		t.Errorf("expected original casing preserved, got %q", a.Name())
	}
}

func TestTypeDescriptor_Zero(t *testing.T) {
	var zero TypeDescriptor
	if !zero.IsZero() {
		t.Error("zero value should report IsZero")
	}
	if NewType("app.Repo").IsZero() {
		t.Error("non-empty descriptor should not report IsZero")
	}
	if NewType("  ").IsZero() != true {
		t.Error("whitespace-only name should normalize to zero")
	}
}

func TestUnwrapDeferred(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		want     string
		deferred bool
	}{
		{"plain type", "app.Repo", "app.Repo", false},
		{"wrapped", "Deferred[app.Repo]", "app.Repo", true},
		{"lowercase wrapper", "deferred[app.Repo]", "app.Repo", true},
		{"inner whitespace", "Deferred[ app.Repo ]", "app.Repo", true},
		{"unterminated", "Deferred[app.Repo", "Deferred[app.Repo", false},
		{"prefix only in name", "DeferredRepo", "DeferredRepo", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, deferred := unwrapDeferred(tc.declared)
			if got != tc.want || deferred != tc.deferred {
				t.Errorf("unwrapDeferred(%q) = (%q, %v), want (%q, %v)",
					tc.declared, got, deferred, tc.want, tc.deferred)
			}
		})
	}
}

func TestParseLifetime(t *testing.T) {
	tests := []struct {
		input   string
		want    Lifetime
		wantErr bool
	}{
		{"", Transient, false},
		{"transient", Transient, false},
		{"singleton", Singleton, false},
		{"scoped", Scoped, false},
		{"pooled", "", true},
	}
	for _, tc := range tests {
		got, err := ParseLifetime(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLifetime(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseLifetime(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestDependencyDescriptor_Equal(t *testing.T) {
	a := DependencyDescriptor{Contract: NewType("app.Repo"), ServiceID: "primary"}
	b := DependencyDescriptor{Contract: NewType("APP.REPO"), ServiceID: "primary", Deferred: true}
	c := DependencyDescriptor{Contract: NewType("app.Repo"), ServiceID: "replica"}

	if !a.Equal(b) {
		t.Error("deferral should not participate in dependency identity")
	}
	if a.Equal(c) {
		t.Error("different service ids should not compare equal")
	}
}

func TestServiceDescriptor_Identity(t *testing.T) {
	a := ServiceDescriptor{Contract: NewType("app.IFoo"), Implementation: NewType("app.Foo"), ServiceID: "x"}
	b := ServiceDescriptor{Contract: NewType("APP.ifoo"), Implementation: NewType("app.FOO"), ServiceID: "x"}
	if a.Identity() != b.Identity() {
		t.Error("identity should be case-insensitive on contract and implementation")
	}

	c := ServiceDescriptor{Contract: NewType("app.IFoo"), Implementation: NewType("app.Foo"), ServiceID: "y"}
	if a.Identity() == c.Identity() {
		t.Error("differing service ids must yield distinct identities")
	}
}
