package api

import (
	"errors"
	"strings"
	"testing"
)

func TestEntriesFilePaths(t *testing.T) {
	req := TransferRequest{Type: TypeCopyFiles, FilePaths: []string{"/a.png", "/b.png"}}
	entries, legacy, err := req.Entries(10)
	if err != nil {
		t.Fatal(err)
	}
	if legacy {
		t.Fatal("no legacy fields present")
	}
	if len(entries) != 2 || entries[1].Raw != "/b.png" || entries[1].Base != "" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestEntriesLayersUseExportPath(t *testing.T) {
	req := TransferRequest{
		Type:       TypeCopyFiles,
		ExportPath: "/exports",
		Layers:     []LayerFile{{Name: "bg", FileName: "%E8%83%8C.png"}},
	}
	entries, _, err := req.Entries(10)
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].Base != "/exports" || entries[0].Raw != "%E8%83%8C.png" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestEntriesFilePathsWinOverLayers(t *testing.T) {
	req := TransferRequest{
		Type:       TypeCopyFiles,
		FilePaths:  []string{"/a.png"},
		ExportPath: "/exports",
		Layers:     []LayerFile{{FileName: "b.png"}},
	}
	entries, legacy, err := req.Entries(10)
	if err != nil {
		t.Fatal(err)
	}
	if !legacy {
		t.Fatal("expected legacy fields to be reported as ignored")
	}
	if len(entries) != 1 || entries[0].Raw != "/a.png" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestEntriesStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		req  TransferRequest
		want string
	}{
		{"missing type", TransferRequest{FilePaths: []string{"/a"}}, "type is required"},
		{"wrong type", TransferRequest{Type: "delete_files", FilePaths: []string{"/a"}}, "unsupported request type"},
		{"empty", TransferRequest{Type: TypeCopyFiles}, "at least one path"},
		{"layers without export path", TransferRequest{Type: TypeCopyFiles, Layers: []LayerFile{{FileName: "a"}}}, "exportPath"},
		{"too many", TransferRequest{Type: TypeCopyFiles, FilePaths: []string{"a", "b", "c"}}, "too many paths"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.req.Entries(2)
			var structural *StructuralError
			if !errors.As(err, &structural) {
				t.Fatalf("expected StructuralError, got %v", err)
			}
			if !strings.Contains(structural.Message, tt.want) {
				t.Fatalf("message %q does not mention %q", structural.Message, tt.want)
			}
		})
	}
}
