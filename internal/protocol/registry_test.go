package protocol_test

import (
	"errors"
	"strings"
	"testing"

	"prism/internal/protocol"
)

func TestDefaultRegistryNames(t *testing.T) {
	names := protocol.Default().Names()
	if len(names) != 19 {
		t.Fatalf("expected 19 protocols, got %d: %v", len(names), names)
	}
	if names[0] != protocol.DebugName {
		t.Fatalf("expected Debug first, got %q", names[0])
	}
	if names[1] != "SRE10_c01_f" || names[18] != "SRE10_c09_m" {
		t.Fatalf("unexpected ordering: %v", names)
	}
}

func TestRegistryOpen(t *testing.T) {
	fx := newFixture(t, []string{"e1"}, []string{"t1"})
	reg := protocol.Default()

	p, err := reg.Open("SpeakerRecognition.SRE10_c05_f", fx.source)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if p.Name() != "SRE10_c05_f" {
		t.Fatalf("unexpected protocol %q", p.Name())
	}
	sre, ok := p.(*protocol.SRE10)
	if !ok || sre.Condition() != 5 || sre.Gender() != "f" {
		t.Fatalf("unexpected protocol value %#v", p)
	}

	if _, err := reg.Open("SRE12_c01_f", fx.source); !errors.Is(err, protocol.ErrUnknownProtocol) {
		t.Fatalf("expected ErrUnknownProtocol, got %v", err)
	}
	_, err = reg.Open("SRE10_c10_f", fx.source)
	if !errors.Is(err, protocol.ErrUnknownProtocol) || !strings.Contains(err.Error(), "condition out of range") {
		t.Fatalf("expected out-of-range condition error, got %v", err)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := protocol.NewRegistry()
	factory := func(src protocol.Source) (protocol.Protocol, error) { return protocol.NewDebug(src) }
	if err := reg.Register("Debug", factory); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register("Debug", factory); err == nil {
		t.Fatal("expected duplicate registration error")
	}
	if err := reg.Register(" ", factory); err == nil {
		t.Fatal("expected empty name error")
	}
}

func TestParseSRE10Name(t *testing.T) {
	condition, gender, err := protocol.ParseSRE10Name("SpeakerRecognition.SRE10_c07_m")
	if err != nil {
		t.Fatalf("ParseSRE10Name: %v", err)
	}
	if condition != 7 || gender != "m" {
		t.Fatalf("got condition %d gender %q", condition, gender)
	}
	for _, bad := range []string{"Debug", "SRE10_c7_f", "SRE10_c10_f", "SRE10_c05_x", "SRE10_c05"} {
		if _, _, err := protocol.ParseSRE10Name(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestRegistryHas(t *testing.T) {
	reg := protocol.Default()
	for _, name := range []string{"Debug", "SRE10_c01_m", "SpeakerRecognition.SRE10_c09_f"} {
		if !reg.Has(name) {
			t.Fatalf("expected %q to be registered", name)
		}
	}
	if reg.Has("SRE10_c10_f") {
		t.Fatal("expected condition 10 to be unknown")
	}
}
