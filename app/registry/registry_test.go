package registry

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/lysyi3m/channel-comb/app/feed"
)

const (
	channelA = "UCjnYCUIym8aNRjLtZCc6gNg"
	channelB = "UCBJycsmduvYEL83R_U4JriQ"
)

func newFilePrefs(t *testing.T) *FilePreferences {
	t.Helper()
	return NewFilePreferences(filepath.Join(t.TempDir(), "state", "preferences.yaml"))
}

func TestNew_DefaultsWhenAbsent(t *testing.T) {
	registry := New(newFilePrefs(t))

	if !slices.Equal(registry.IDs(), DefaultChannels) {
		t.Errorf("Expected default channels, got %v", registry.IDs())
	}
	if registry.Active() != DefaultChannels[0] {
		t.Errorf("Expected first default active, got %s", registry.Active())
	}
}

func TestNew_DefaultsWhenCorrupt(t *testing.T) {
	prefs := newFilePrefs(t)
	if err := os.MkdirAll(filepath.Dir(prefs.Path()), 0755); err != nil {
		t.Fatal(err)
	}

	tests := map[string]string{
		"not yaml":       "{{{ not: [valid",
		"wrong shape":    PreferencesKey + ": {nested: true}\n",
		"empty list":     PreferencesKey + ": []\n",
		"invalid values": PreferencesKey + ": [\"nope\", \"UCshort\"]\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if err := os.WriteFile(prefs.Path(), []byte(content), 0644); err != nil {
				t.Fatal(err)
			}

			registry := New(prefs)
			if !slices.Equal(registry.IDs(), DefaultChannels) {
				t.Errorf("Expected default channels, got %v", registry.IDs())
			}
		})
	}
}

func TestAdd_PersistsAndSelects(t *testing.T) {
	prefs := newFilePrefs(t)
	registry := New(prefs)

	added, err := registry.Add(channelA)
	if err != nil || !added {
		t.Fatalf("Expected channel to be added, got added=%v err=%v", added, err)
	}
	if registry.Active() != channelA {
		t.Errorf("Expected %s active, got %s", channelA, registry.Active())
	}

	restored := New(prefs)
	expected := append(slices.Clone(DefaultChannels), channelA)
	if !slices.Equal(restored.IDs(), expected) {
		t.Errorf("Expected persisted ids %v, got %v", expected, restored.IDs())
	}
}

func TestAdd_ExistingSelectsWithoutDuplicating(t *testing.T) {
	registry := New(newFilePrefs(t))

	added, err := registry.Add(DefaultChannels[2])
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if added {
		t.Error("Expected existing channel not to be re-added")
	}
	if len(registry.IDs()) != len(DefaultChannels) {
		t.Errorf("Expected %d ids, got %v", len(DefaultChannels), registry.IDs())
	}
	if registry.Active() != DefaultChannels[2] {
		t.Errorf("Expected %s active, got %s", DefaultChannels[2], registry.Active())
	}
}

func TestAdd_RejectsInvalid(t *testing.T) {
	registry := New(newFilePrefs(t))

	_, err := registry.Add("XXjnYCUIym8aNRjLtZCc6gNg")

	var validationErr *feed.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if len(registry.IDs()) != len(DefaultChannels) {
		t.Errorf("Expected ids unchanged, got %v", registry.IDs())
	}
}

func TestRemove_ReassignsActive(t *testing.T) {
	registry := New(newFilePrefs(t))
	if err := registry.Select(DefaultChannels[1]); err != nil {
		t.Fatal(err)
	}

	if err := registry.Remove(DefaultChannels[1]); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if registry.Active() != DefaultChannels[0] {
		t.Errorf("Expected first remaining id active, got %s", registry.Active())
	}
	if registry.Contains(DefaultChannels[1]) {
		t.Error("Expected removed channel to be gone")
	}
}

func TestRemove_NeverEmpties(t *testing.T) {
	prefs := newFilePrefs(t)
	if err := prefs.Save(PreferencesKey, []string{channelA, channelB}); err != nil {
		t.Fatal(err)
	}
	registry := New(prefs)

	if err := registry.Remove(channelA); err != nil {
		t.Fatalf("Expected first removal to succeed, got %v", err)
	}

	err := registry.Remove(channelB)
	if !errors.Is(err, ErrLastChannel) {
		t.Fatalf("Expected ErrLastChannel, got %v", err)
	}
	if !slices.Equal(registry.IDs(), []string{channelB}) {
		t.Errorf("Expected registry to keep %s, got %v", channelB, registry.IDs())
	}

	restored := New(prefs)
	if !slices.Equal(restored.IDs(), []string{channelB}) {
		t.Errorf("Expected persisted [%s], got %v", channelB, restored.IDs())
	}
}

func TestRemove_Unknown(t *testing.T) {
	registry := New(newFilePrefs(t))

	if err := registry.Remove(channelA); !errors.Is(err, ErrNotTracked) {
		t.Errorf("Expected ErrNotTracked, got %v", err)
	}
}

func TestSelect_Unknown(t *testing.T) {
	registry := New(nil)

	if err := registry.Select(channelA); !errors.Is(err, ErrNotTracked) {
		t.Errorf("Expected ErrNotTracked, got %v", err)
	}
	if registry.Active() != DefaultChannels[0] {
		t.Errorf("Expected selection unchanged, got %s", registry.Active())
	}
}

func TestFilePreferences_KeepsOtherKeys(t *testing.T) {
	prefs := newFilePrefs(t)

	if err := prefs.Save("other", []string{"x"}); err != nil {
		t.Fatal(err)
	}
	if err := prefs.Save(PreferencesKey, []string{channelA}); err != nil {
		t.Fatal(err)
	}

	values, ok, err := prefs.Load("other")
	if err != nil || !ok || !slices.Equal(values, []string{"x"}) {
		t.Errorf("Expected other key preserved, got %v ok=%v err=%v", values, ok, err)
	}

	entries, err := os.ReadDir(filepath.Dir(prefs.Path()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the preferences file, found %d entries", len(entries))
	}
}
