package flow

import (
	"sync"
	"testing"

	"github.com/studiowebux/flowcli/internal/types"
)

func TestStoreDefaults(t *testing.T) {
	s := NewStore()

	if s.GetCurrent() != nil {
		t.Error("Expected no current flow initially")
	}
	if s.IsBuilding() {
		t.Error("Expected building to be false initially")
	}
}

func TestStoreSetCurrent(t *testing.T) {
	s := NewStore()
	doc := &types.FlowDocument{ID: "f1", Name: "Test", Data: map[string]interface{}{}}

	s.SetCurrent(doc)

	got := s.GetCurrent()
	if got == nil {
		t.Fatal("Expected current flow, got nil")
	}
	if got.ID != "f1" {
		t.Errorf("Expected id 'f1', got %q", got.ID)
	}
}

func TestStoreBuildingFlag(t *testing.T) {
	s := NewStore()

	s.SetBuilding(true)
	if !s.IsBuilding() {
		t.Error("Expected building to be true")
	}

	s.SetBuilding(false)
	if s.IsBuilding() {
		t.Error("Expected building to be false")
	}
}

func TestStoreReset(t *testing.T) {
	s := NewStore()
	s.SetCurrent(&types.FlowDocument{ID: "f1", Data: map[string]interface{}{}})
	s.SetBuilding(true)

	s.Reset()

	if s.GetCurrent() != nil {
		t.Error("Expected no current flow after reset")
	}
	if s.IsBuilding() {
		t.Error("Expected building to be false after reset")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.SetCurrent(&types.FlowDocument{ID: "f1", Data: map[string]interface{}{}})
			s.GetCurrent()
			s.SetBuilding(n%2 == 0)
			s.IsBuilding()
		}(i)
	}

	wg.Wait()

	if s.GetCurrent() == nil {
		t.Error("Expected a current flow after concurrent writes")
	}
}
