package seed

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/ldrouet/marque/internal/domain"
	"github.com/ldrouet/marque/internal/logger"
	"github.com/ldrouet/marque/internal/storage"
	"github.com/ldrouet/marque/internal/store"
)

// File is the root structure of a seed YAML file. It bootstraps one user's
// account with collections, tags and bookmarks, typically for dev setups
// and demos.
type File struct {
	Email       string            `yaml:"email"`
	Password    string            `yaml:"password"`
	Collections []CollectionEntry `yaml:"collections"`
	Tags        []TagEntry        `yaml:"tags"`
	Bookmarks   []BookmarkEntry   `yaml:"bookmarks"`
}

// CollectionEntry is one collection in the seed file.
type CollectionEntry struct {
	Name  string `yaml:"name"`
	Icon  string `yaml:"icon"`
	Color string `yaml:"color"`
}

// TagEntry is one tag in the seed file.
type TagEntry struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// BookmarkEntry is one bookmark in the seed file. Collection and Tags
// reference entries above by name.
type BookmarkEntry struct {
	Title       string   `yaml:"title"`
	URL         string   `yaml:"url"`
	Description string   `yaml:"description"`
	Collection  string   `yaml:"collection"`
	Tags        []string `yaml:"tags"`
	Favorite    bool     `yaml:"favorite"`
}

// Load reads and parses a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	if f.Email == "" {
		return nil, fmt.Errorf("seed file missing email")
	}
	if f.Password == "" {
		return nil, fmt.Errorf("seed file missing password")
	}
	return &f, nil
}

// Apply creates the seed user if needed and fills an empty working set with
// the seed entries. A non-empty working set is left alone, so applying the
// same seed on every startup is safe.
func Apply(ctx context.Context, f *File, users storage.UserStore, manager *store.Manager, log logger.Logger) error {
	user, err := users.UserByEmail(ctx, f.Email)
	if err != nil {
		if err != domain.ErrNotFound {
			return fmt.Errorf("failed to look up seed user: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		created := domain.NewUser(f.Email, string(hash))
		if err := users.CreateUser(ctx, created); err != nil {
			return fmt.Errorf("failed to create seed user: %w", err)
		}
		user = &created
		log.Info("created seed user", logger.String("email", f.Email))
	}

	s, err := manager.StoreFor(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(s.Bookmarks()) > 0 || len(s.Collections()) > 0 || len(s.Tags()) > 0 {
		log.Debug("seed user already has data, skipping seed")
		return nil
	}

	collectionIDs := make(map[string]string, len(f.Collections))
	for _, entry := range f.Collections {
		c, err := s.CreateCollection(ctx, entry.Name, entry.Icon, entry.Color)
		if err != nil {
			return fmt.Errorf("failed to seed collection %q: %w", entry.Name, err)
		}
		collectionIDs[entry.Name] = c.ID
	}

	tagIDs := make(map[string]string, len(f.Tags))
	for _, entry := range f.Tags {
		t, err := s.CreateTag(ctx, entry.Name, entry.Color)
		if err != nil {
			return fmt.Errorf("failed to seed tag %q: %w", entry.Name, err)
		}
		tagIDs[entry.Name] = t.ID
	}

	for _, entry := range f.Bookmarks {
		params := store.CreateBookmarkParams{
			Title:       entry.Title,
			URL:         entry.URL,
			Description: entry.Description,
		}
		if entry.Collection != "" {
			if id, ok := collectionIDs[entry.Collection]; ok {
				params.CollectionID = &id
			} else {
				log.Warn("seed bookmark references unknown collection",
					logger.String("title", entry.Title),
					logger.String("collection", entry.Collection))
			}
		}
		for _, name := range entry.Tags {
			if id, ok := tagIDs[name]; ok {
				params.Tags = append(params.Tags, id)
			}
		}

		b, err := s.CreateBookmark(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to seed bookmark %q: %w", entry.Title, err)
		}
		if entry.Favorite {
			if _, err := s.ToggleFavorite(ctx, b.ID); err != nil {
				return fmt.Errorf("failed to favorite seed bookmark %q: %w", entry.Title, err)
			}
		}
	}

	log.Info("seed applied",
		logger.String("email", f.Email),
		logger.Int("collections", len(f.Collections)),
		logger.Int("tags", len(f.Tags)),
		logger.Int("bookmarks", len(f.Bookmarks)))
	return nil
}
