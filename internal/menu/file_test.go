package menu

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleMenu = `toppings:
  - name: milk
    label: Milk
    price: 500
  - name: honey
    label: Honey
    price: 400
`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	if err := os.WriteFile(path, []byte(sampleMenu), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	honey, ok := m.Lookup("honey")
	if !ok || honey.Price != 400 {
		t.Errorf("honey = %+v, ok=%v", honey, ok)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "menu.yaml")
	if err := os.WriteFile(path, []byte("toppings: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Menu, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(m *Menu) { changes <- m })
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(sampleMenu), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case m := <-changes:
			if m.Len() == 2 {
				cancel()
				if err := <-done; err != nil {
					t.Fatalf("Watch: %v", err)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for menu reload")
		}
	}
}
