package catalog

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	models "creationrights/internal/domain/models/catalog"
)

//go:embed seeddata/seed.yaml
var seedFiles embed.FS

type seedCreation struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Type        string   `yaml:"type"`
	DateCreated string   `yaml:"dateCreated"`
	Rights      string   `yaml:"rights"`
	Notes       string   `yaml:"notes"`
	FolderID    string   `yaml:"folderId"`
	Tags        []string `yaml:"tags"`
}

type seedFile struct {
	Folders   []models.Folder                  `yaml:"folders"`
	Creations []seedCreation                   `yaml:"creations"`
	Users     map[models.UserType]models.User `yaml:"users"`
}

// Dataset is a complete set of collections plus the mock accounts.
type Dataset struct {
	Folders   []models.Folder
	Creations []models.Creation
	Users     map[models.UserType]models.User
}

var (
	seedOnce sync.Once
	seed     *Dataset
	seedErr  error
)

// Seed returns a fresh copy of the embedded fallback dataset.
func Seed() (*Dataset, error) {
	seedOnce.Do(func() {
		seed, seedErr = loadSeed()
	})
	if seedErr != nil {
		return nil, seedErr
	}

	users := make(map[models.UserType]models.User, len(seed.Users))
	for k, v := range seed.Users {
		users[k] = v
	}
	return &Dataset{
		Folders:   NewEntityStore(seed.Folders, nil).Folders(),
		Creations: NewEntityStore(nil, seed.Creations).Creations(),
		Users:     users,
	}, nil
}

// MustSeed is Seed for callers that treat a broken embedded file as a programming error.
func MustSeed() *Dataset {
	ds, err := Seed()
	if err != nil {
		panic(err)
	}
	return ds
}

func loadSeed() (*Dataset, error) {
	data, err := seedFiles.ReadFile("seeddata/seed.yaml")
	if err != nil {
		return nil, fmt.Errorf("read seed dataset: %w", err)
	}

	var raw seedFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal seed dataset: %w", err)
	}

	ds := &Dataset{
		Folders:   raw.Folders,
		Creations: make([]models.Creation, 0, len(raw.Creations)),
		Users:     raw.Users,
	}
	for _, sc := range raw.Creations {
		ct, ok := models.ParseCreationType(sc.Type)
		if !ok {
			return nil, fmt.Errorf("seed creation %s: unknown type %q", sc.ID, sc.Type)
		}
		ds.Creations = append(ds.Creations, models.Creation{
			ID:          sc.ID,
			Title:       sc.Title,
			Type:        ct,
			DateCreated: sc.DateCreated,
			Rights:      sc.Rights,
			Notes:       sc.Notes,
			FolderID:    sc.FolderID,
			Tags:        models.NormalizeTags(sc.Tags),
			Origin:      models.ManualOrigin{},
		})
	}
	return ds, nil
}
