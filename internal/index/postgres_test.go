package index

import (
	"strings"
	"testing"
)

func TestChunkTableDDL_UsesConfiguredVectorSize(t *testing.T) {
	ddl := chunkTableDDL(1024)
	if !strings.Contains(ddl, "vector(1024)") {
		t.Errorf("DDL does not carry the configured dimensionality:\n%s", ddl)
	}
	if strings.Contains(ddl, "vector(768)") {
		t.Errorf("DDL still carries a hard-coded dimensionality:\n%s", ddl)
	}
}

func TestVectorLiteral(t *testing.T) {
	if got := vectorLiteral([]float32{0.5, -1, 2}); got != "[0.5,-1,2]" {
		t.Errorf("unexpected literal: %q", got)
	}
	if got := vectorLiteral(nil); got != "[]" {
		t.Errorf("unexpected empty literal: %q", got)
	}
}
