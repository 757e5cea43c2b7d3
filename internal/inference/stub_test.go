package inference

import (
	"context"
	"math"
	"strings"
	"testing"
)

func TestStubComplete_EchoesLastMessage(t *testing.T) {
	s := NewStub()
	reply, err := s.Complete(context.Background(), []Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hello there"},
	}, Params{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !strings.Contains(reply.Content, "hello there") {
		t.Errorf("reply does not echo message: %q", reply.Content)
	}
	if reply.FinishReason != "stop" {
		t.Errorf("finish reason = %q", reply.FinishReason)
	}
}

func TestStubEmbed_Deterministic(t *testing.T) {
	s := NewStub()
	a, err := s.Embed(context.Background(), []string{"same text", "same text", "other"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(a) != 3 {
		t.Fatalf("len = %d, want 3", len(a))
	}
	for i := range a[0] {
		if a[0][i] != a[1][i] {
			t.Fatal("identical inputs produced different vectors")
		}
	}
	same := true
	for i := range a[0] {
		if a[0][i] != a[2][i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different inputs produced identical vectors")
	}
}

func TestStubEmbed_UnitLength(t *testing.T) {
	s := NewStub()
	vecs, err := s.Embed(context.Background(), []string{"normalize me"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	var norm float64
	for _, v := range vecs[0] {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-3 {
		t.Errorf("norm = %f, want 1", math.Sqrt(norm))
	}
	if len(vecs[0]) != stubDimensions {
		t.Errorf("dimensions = %d, want %d", len(vecs[0]), stubDimensions)
	}
}
