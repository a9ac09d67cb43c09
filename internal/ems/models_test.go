package ems

import "testing"

func TestGetModel(t *testing.T) {
	model, ok := GetModel("cgr-30p")
	if !ok {
		t.Fatal("expected cgr-30p model to exist")
	}
	if model.DisplayName != "Electronics International CGR-30P" {
		t.Errorf("unexpected display name: %q", model.DisplayName)
	}
	if model.MaxCylinders != 9 {
		t.Errorf("expected 9 max cylinders, got %d", model.MaxCylinders)
	}
	if model.DefaultBaudRate != 19200 {
		t.Errorf("expected default baud 19200, got %d", model.DefaultBaudRate)
	}
	if len(model.InitCommands) == 0 {
		t.Error("expected init commands")
	}
}

func TestGetModelUnknown(t *testing.T) {
	if _, ok := GetModel("jpi-830"); ok {
		t.Error("expected lookup of unsupported model to fail")
	}
}

func TestAllModels(t *testing.T) {
	models := AllModels()
	if len(models) != len(SupportedModels) {
		t.Errorf("expected %d models, got %d", len(SupportedModels), len(models))
	}
	for _, m := range models {
		if m.Slug == "" {
			t.Errorf("model with empty slug: %+v", m)
		}
	}
}
