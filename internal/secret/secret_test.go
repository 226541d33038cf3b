package secret

import "testing"

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	if v, err := s.Get("missing"); v != nil || err != nil {
		t.Fatalf("missing key: %q, %v", v, err)
	}
	buf := []byte("hunter2")
	s.Set(RemoteKey("r1"), buf)
	buf[0] = 'X'
	v, _ := s.Get("remote:r1")
	if string(v) != "hunter2" {
		t.Errorf("stored value aliased caller buffer: %q", v)
	}
	s.Delete("remote:r1")
	if v, _ := s.Get("remote:r1"); v != nil {
		t.Errorf("not deleted: %q", v)
	}
}

func TestEnvStore(t *testing.T) {
	t.Setenv("MASQUERADE_SECRET_REMOTE_ABC_1", "from-env")
	s := NewEnvStore("MASQUERADE_SECRET_")

	v, _ := s.Get(RemoteKey("abc-1"))
	if string(v) != "from-env" {
		t.Fatalf("env value = %q", v)
	}
	s.Set(RemoteKey("abc-1"), []byte("override"))
	v, _ = s.Get(RemoteKey("abc-1"))
	if string(v) != "override" {
		t.Errorf("runtime value should shadow env, got %q", v)
	}
}

func TestNew(t *testing.T) {
	for _, b := range []string{"memory", "env", "keychain"} {
		if _, err := New(b); err != nil {
			t.Errorf("%s: %v", b, err)
		}
	}
	if _, err := New("vault"); err == nil {
		t.Error("expected unknown backend error")
	}
}
