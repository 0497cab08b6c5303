// Copyright © 2024 Galvanized Logic Inc.

package world

import "testing"

func TestHandleCreateValid(t *testing.T) {
	tbl := newHandleTable("test", 8)
	h := tbl.create()
	if h == 0 {
		t.Fatalf("create returned 0")
	}
	if !tbl.valid(h) {
		t.Errorf("handle %d should be valid", h)
	}
}

func TestHandleEraseInvalidates(t *testing.T) {
	tbl := newHandleTable("test", 8)
	h := tbl.create()
	tbl.erase(h)
	if tbl.valid(h) {
		t.Errorf("handle %d should be invalid after erase", h)
	}
}

func TestHandleReuseBumpsEdition(t *testing.T) {
	tbl := newHandleTable("test", 8)
	for i := 0; i < maxFreeLen+2; i++ {
		h := tbl.create()
		tbl.erase(h)
	}
	h := tbl.create()
	if handleEdition(h) == 0 {
		t.Errorf("edition should have advanced after recycling, got %d", handleEdition(h))
	}
}

func TestHandleCapacityExceeded(t *testing.T) {
	tbl := newHandleTable("test", 2)
	tbl.create()
	tbl.create()
	if h := tbl.create(); h != 0 {
		t.Errorf("expected 0 once capacity is exhausted, got %d", h)
	}
}
