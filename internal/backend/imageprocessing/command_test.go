package imageprocessing

import (
	"errors"
	"testing"
)

type mockCommand struct {
	name        string
	executeFunc func([]byte) ([]byte, error)
}

func (m *mockCommand) Name() string {
	return m.name
}

func (m *mockCommand) Execute(imageData []byte) ([]byte, error) {
	if m.executeFunc != nil {
		return m.executeFunc(imageData)
	}
	return imageData, nil
}

func TestNewCommandRegistry(t *testing.T) {
	registry := NewCommandRegistry()
	if registry == nil {
		t.Fatal("Expected non-nil registry")
	}
	if len(registry.GetRegisteredNames()) != 0 {
		t.Fatal("Expected a new registry to be empty")
	}
}

func TestCommandRegistry_Register(t *testing.T) {
	registry := NewCommandRegistry()
	factory := func(params map[string]any) (Command, error) {
		return &mockCommand{name: "TestCommand"}, nil
	}

	if err := registry.Register("TestCommand", factory); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := registry.Register("TestCommand", factory); err == nil {
		t.Error("Expected error for duplicate registration")
	}
	if err := registry.Register("", factory); err == nil {
		t.Error("Expected error for empty name")
	}
	if err := registry.Register("NilFactory", nil); err == nil {
		t.Error("Expected error for nil factory")
	}
}

func TestCommandRegistry_Create(t *testing.T) {
	registry := NewCommandRegistry()
	err := registry.Register("TestCommand", func(params map[string]any) (Command, error) {
		if params == nil {
			return nil, errors.New("params must not be nil")
		}
		return &mockCommand{name: "TestCommand"}, nil
	})
	if err != nil {
		t.Fatalf("Failed to register command: %v", err)
	}

	command, err := registry.Create("TestCommand", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if command.Name() != "TestCommand" {
		t.Errorf("Expected command name 'TestCommand', got '%s'", command.Name())
	}

	if _, err := registry.Create("UnknownCommand", nil); err == nil {
		t.Error("Expected error for unknown command")
	}
}

func TestCommandRegistry_CreateAll(t *testing.T) {
	commands, err := DefaultRegistry.CreateAll([]CommandConfig{
		{Name: "GrayscaleCommand"},
		{Name: "ResizeCommand", Params: map[string]any{"width": 10, "height": 5}},
	})
	if err != nil {
		t.Fatalf("CreateAll failed: %v", err)
	}
	if len(commands) != 2 {
		t.Fatalf("Expected 2 commands, got %d", len(commands))
	}
	if commands[0].Name() != "GrayscaleCommand" || commands[1].Name() != "ResizeCommand" {
		t.Errorf("Unexpected command order: %s, %s", commands[0].Name(), commands[1].Name())
	}

	_, err = DefaultRegistry.CreateAll([]CommandConfig{
		{Name: "GrayscaleCommand"},
		{Name: "ResizeCommand"},
	})
	if err == nil {
		t.Error("Expected error for resize command without dimensions")
	}
}

func TestDefaultRegistry_ContainsCommands(t *testing.T) {
	for _, name := range []string{"BitmapConverterCommand", "CropCommand", "GrayscaleCommand", "OrientationCommand", "ResizeCommand"} {
		if !DefaultRegistry.IsRegistered(name) {
			t.Errorf("Expected %s to be registered in DefaultRegistry", name)
		}
	}

	names := DefaultRegistry.GetRegisteredNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("Expected sorted names, got %v", names)
		}
	}
}
