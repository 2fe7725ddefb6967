package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"expedition-backend/internal/dataset"
	"expedition-backend/internal/expedition"
	"expedition-backend/internal/server"
)

// End-to-end coverage over a realistic on-disk dataset: YAML files through
// the loader, the selector, and the HTTP surface.

func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"waves.yaml": `
boxes:
  Legacy of Gravehold: 1st Wave
  The New Age: 2nd Wave
  Outcasts: 5th Wave
`,
		"settings.yaml": `
wave_settings:
  1st Wave:
    location: Gravehold
    mood: grim resolve
  2nd Wave:
    location: The Depths
  5th Wave:
    location: New Gravehold
    setting_variants:
      exiled:
        mood: bitter
      reunited:
        mood: hopeful
`,
		"mages.yaml": `
mages:
  - name: Brama
    background: Elder of Gravehold.
    variants:
      - name: Brama
        box: Legacy of Gravehold
  - name: Kadir
    variants:
      - name: Kadir
        box: Legacy of Gravehold
  - name: Mazra
    variants:
      - name: Mazra
        box: Legacy of Gravehold
  - name: Rhia
    variants:
      - name: Rhia
        box: The New Age
      - name: Rhia, Reborn
        box: Outcasts
  - name: Sura
    variants:
      - name: Sura
        box: Outcasts
`,
		"nemeses.yaml": `
nemeses:
  - {name: Carapace Queen, battle: 1, box: Legacy of Gravehold}
  - {name: Hollow Crown, battle: 2, box: Legacy of Gravehold}
  - {name: Crooked Mask, battle: 3, box: Legacy of Gravehold}
  - {name: Knight of Shackles, battle: 4, box: Legacy of Gravehold}
  - {name: Seer of Darkfire, battle: 1, box: The New Age}
  - {name: Prince of Gluttons, battle: 2, box: The New Age}
  - {name: Wraithmonger, battle: 3, box: The New Age}
  - {name: Wayward One, battle: 4, box: Outcasts}
`,
		"friends.yaml": `
friends:
  - {name: Lost Captain, box: Legacy of Gravehold}
  - {name: Archivist, box: Legacy of Gravehold}
  - {name: Wanderer, box: The New Age}
  - {name: Bandit Queen, box: Outcasts}
`,
		"foes.yaml": `
foes:
  - {name: Broodling Pack, box: Legacy of Gravehold}
  - {name: Grub Horde, box: Legacy of Gravehold}
  - {name: Silt Stalkers, box: The New Age}
  - {name: Wailing Throng, box: Outcasts}
`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestLoadedDatasetSelectsReproducibly(t *testing.T) {
	loader := dataset.NewLoader(writeDataset(t))
	col, err := loader.Load()
	require.NoError(t, err)

	seed := int64(2024)
	req := expedition.Request{MageCount: 3, Length: expedition.LengthStandard, Seed: &seed}

	first, err := expedition.Select(col, req)
	require.NoError(t, err)
	second, err := expedition.Select(col, req)
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, string(a), string(b))
	assert.Empty(t, expedition.Validate(first))
}

func TestForcedOutcastsVariantRoundTrip(t *testing.T) {
	loader := dataset.NewLoader(writeDataset(t))
	col, err := loader.Load()
	require.NoError(t, err)

	seed := int64(9)
	p, err := expedition.Select(col, expedition.Request{
		MageCount:      2,
		Seed:           &seed,
		SettingWave:    "5th Wave",
		SettingVariant: "reunited",
	})
	require.NoError(t, err)
	assert.Equal(t, "5th Wave", p.Setting.Wave)
	assert.Equal(t, "hopeful", p.Setting.Fields["mood"])
	assert.Contains(t, []string{"Gravehold", "Xaxos"}, p.ProtectTarget)
}

func TestServerSelectThenReplace(t *testing.T) {
	srv := server.New(server.Config{DataDir: writeDataset(t)}, zap.NewNop())
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/select?mage_count=2&seed=11")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p expedition.Packet
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	require.Len(t, p.Mages, 2)
	assert.Empty(t, expedition.Validate(&p))

	names := make([]string, len(p.Mages))
	for i, m := range p.Mages {
		names[i] = m.Name
	}
	body, _ := json.Marshal(map[string]any{"existing_mage_names": names, "seed": 4})
	rresp, err := http.Post(ts.URL+"/replace", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer rresp.Body.Close()
	require.Equal(t, http.StatusOK, rresp.StatusCode)

	var rep expedition.Replacement
	require.NoError(t, json.NewDecoder(rresp.Body).Decode(&rep))
	assert.NotContains(t, names, rep.Mage.Name)
}
