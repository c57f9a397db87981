package config

import "testing"

func TestOperatorMap(t *testing.T) {
	a := AuthConfig{Operators: "alice:secret:admin, bob:hunter2 ,bad-entry,:nope:x"}
	ops := a.OperatorMap()

	if len(ops) != 2 {
		t.Fatalf("got %d operators, want 2: %v", len(ops), ops)
	}
	if ops["alice"].Password != "secret" || ops["alice"].Role != "admin" {
		t.Errorf("alice = %+v", ops["alice"])
	}
	// Missing role falls back to operator.
	if ops["bob"].Password != "hunter2" || ops["bob"].Role != "operator" {
		t.Errorf("bob = %+v", ops["bob"])
	}
}

func TestOperatorMapEmpty(t *testing.T) {
	a := AuthConfig{}
	if got := a.OperatorMap(); len(got) != 0 {
		t.Errorf("empty setting produced %v", got)
	}
}

func TestStoreDSN(t *testing.T) {
	s := StoreConfig{Host: "db", Port: 3306, Name: "rtoops", User: "app", Password: "pw"}
	want := "app:pw@tcp(db:3306)/rtoops"
	if got := s.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
