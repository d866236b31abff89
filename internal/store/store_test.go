package store

import (
	"os"
	"testing"

	"github.com/thereceipt/template-engine/pkg/templateformat"
)

func newTestTemplate(id, name string) *templateformat.ReceiptTemplate {
	return templateformat.NewTemplate(templateformat.Partial{
		ID:   id,
		Name: templateformat.String(name),
	})
}

func TestNew(t *testing.T) {
	tmpFile := "/tmp/test_store.json"
	defer os.Remove(tmpFile)

	st, err := New(tmpFile)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if st == nil {
		t.Fatal("Store is nil")
	}
}

func TestPutAndGet(t *testing.T) {
	tmpFile := "/tmp/test_store_put.json"
	defer os.Remove(tmpFile)

	st, _ := New(tmpFile)

	if err := st.Put(newTestTemplate("t-1", "Dinner Receipt")); err != nil {
		t.Fatalf("Failed to put template: %v", err)
	}

	got := st.Get("t-1")
	if got == nil {
		t.Fatal("Expected template, got nil")
	}
	if got.Name != "Dinner Receipt" {
		t.Errorf("Expected name 'Dinner Receipt', got '%s'", got.Name)
	}
}

func TestPut_RejectsInvalid(t *testing.T) {
	tmpFile := "/tmp/test_store_invalid.json"
	defer os.Remove(tmpFile)

	st, _ := New(tmpFile)

	bad := newTestTemplate("t-1", "Bad")
	bad.PaperWidth = "200mm"

	if err := st.Put(bad); err == nil {
		t.Error("Expected error for invalid template")
	}
	if st.Exists("t-1") {
		t.Error("Expected invalid template not to be stored")
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	tmpFile := "/tmp/test_store_copy.json"
	defer os.Remove(tmpFile)

	st, _ := New(tmpFile)
	st.Put(newTestTemplate("t-1", "Original"))

	got := st.Get("t-1")
	got.Name = "Mutated"
	got.Blocks[0].Enabled = false

	again := st.Get("t-1")
	if again.Name != "Original" {
		t.Error("Mutating a Get result leaked into the store")
	}
	if !again.Blocks[0].Enabled {
		t.Error("Mutating a Get result's blocks leaked into the store")
	}
}

func TestGet_Missing(t *testing.T) {
	tmpFile := "/tmp/test_store_missing.json"
	defer os.Remove(tmpFile)

	st, _ := New(tmpFile)

	if st.Get("nope") != nil {
		t.Error("Expected nil for unknown id")
	}
}

func TestList_SortedByName(t *testing.T) {
	tmpFile := "/tmp/test_store_list.json"
	defer os.Remove(tmpFile)

	st, _ := New(tmpFile)
	st.Put(newTestTemplate("t-2", "Zebra"))
	st.Put(newTestTemplate("t-1", "Alpha"))
	st.Put(newTestTemplate("t-3", "Mango"))

	list := st.List()
	if len(list) != 3 {
		t.Fatalf("Expected 3 templates, got %d", len(list))
	}

	want := []string{"Alpha", "Mango", "Zebra"}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("Index %d: expected '%s', got '%s'", i, name, list[i].Name)
		}
	}
}

func TestRename(t *testing.T) {
	tmpFile := "/tmp/test_store_rename.json"
	defer os.Remove(tmpFile)

	st, _ := New(tmpFile)
	st.Put(newTestTemplate("t-1", "Before"))

	if !st.Rename("t-1", "After") {
		t.Error("Expected successful rename")
	}
	if st.Get("t-1").Name != "After" {
		t.Error("Expected name to change")
	}

	if st.Rename("t-1", "") {
		t.Error("Expected empty name to be rejected")
	}
	if st.Rename("nope", "Anything") {
		t.Error("Expected rename of unknown id to fail")
	}
}

func TestRemove(t *testing.T) {
	tmpFile := "/tmp/test_store_remove.json"
	defer os.Remove(tmpFile)

	st, _ := New(tmpFile)
	st.Put(newTestTemplate("t-1", "Doomed"))

	if !st.Remove("t-1") {
		t.Error("Expected successful removal")
	}
	if st.Get("t-1") != nil {
		t.Error("Expected nil after removal")
	}
	if st.Remove("t-1") {
		t.Error("Expected second removal to fail")
	}
}

func TestPersistence(t *testing.T) {
	tmpFile := "/tmp/test_store_persist.json"
	defer os.Remove(tmpFile)

	st1, _ := New(tmpFile)
	tmpl := newTestTemplate("t-1", "Persistent")
	templateformat.Reorder(tmpl.Blocks, 0, 5)
	st1.Put(tmpl)

	// Simulate app restart
	st2, err := New(tmpFile)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}

	got := st2.Get("t-1")
	if got == nil {
		t.Fatal("Expected template to survive restart")
	}
	if got.Name != "Persistent" {
		t.Errorf("Expected name to persist, got '%s'", got.Name)
	}
	if got.Blocks[5].ID != "header" {
		t.Errorf("Expected block order to persist, got '%s' at index 5", got.Blocks[5].ID)
	}
}
