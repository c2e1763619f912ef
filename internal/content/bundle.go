package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cory-johannsen/emberfall/internal/game/ai"
	"github.com/cory-johannsen/emberfall/internal/game/condition"
	"github.com/cory-johannsen/emberfall/internal/game/npc"
	"github.com/cory-johannsen/emberfall/internal/game/ruleset"
	"github.com/cory-johannsen/emberfall/internal/game/world"
)

// Bundle is every piece of static game data read from a content tree.
type Bundle struct {
	Effects       *condition.Registry
	Catalog       *ruleset.Catalog
	Bestiary      []*npc.Template
	Personalities *ai.Registry
	Socials       []world.SocialEncounter
	World         world.Map
	// ScriptDir is the Lua predicate directory, or "" when the tree has none.
	ScriptDir string
}

// DefaultBundle returns the built-in data used when no content tree is present.
func DefaultBundle() Bundle {
	return Bundle{
		Effects:       condition.DefaultRegistry(),
		Catalog:       ruleset.DefaultCatalog(),
		Bestiary:      npc.DefaultBestiary(),
		Personalities: ai.DefaultRegistry(),
		Socials:       DefaultSocials(),
		World:         world.DefaultMap(),
	}
}

// LoadBundle reads the content tree rooted at dir. Each part falls back to its
// built-in default when its subdirectory is absent.
//
// Layout: conditions/, abilities/ with classes/, npcs/, ai/, social/,
// world/ (exactly one map file) and scripts/ai/.
//
// Postcondition: Returns a fully populated Bundle or the first load error.
func LoadBundle(dir string) (Bundle, error) {
	b := DefaultBundle()
	sub := func(name string) (string, bool, error) {
		p := filepath.Join(dir, name)
		info, err := os.Stat(p)
		if errors.Is(err, fs.ErrNotExist) {
			return p, false, nil
		}
		if err != nil {
			return p, false, fmt.Errorf("content %q: %w", p, err)
		}
		if !info.IsDir() {
			return p, false, fmt.Errorf("content %q: not a directory", p)
		}
		return p, true, nil
	}

	if p, ok, err := sub("conditions"); err != nil {
		return b, err
	} else if ok {
		if b.Effects, err = condition.LoadDirectory(p); err != nil {
			return b, err
		}
	}

	abilities, hasAbilities, err := sub("abilities")
	if err != nil {
		return b, err
	}
	classes, hasClasses, err := sub("classes")
	if err != nil {
		return b, err
	}
	if hasAbilities != hasClasses {
		return b, fmt.Errorf("content %q: abilities and classes must be provided together", dir)
	}
	if hasAbilities {
		if b.Catalog, err = ruleset.LoadCatalog(abilities, classes); err != nil {
			return b, err
		}
	}

	if p, ok, err := sub("npcs"); err != nil {
		return b, err
	} else if ok {
		ts, err := npc.LoadTemplates(p)
		if err != nil {
			return b, err
		}
		if len(ts) == 0 {
			return b, fmt.Errorf("content %q: bestiary is empty", p)
		}
		b.Bestiary = ts
	}

	if p, ok, err := sub("ai"); err != nil {
		return b, err
	} else if ok {
		if b.Personalities, err = ai.LoadRegistry(p); err != nil {
			return b, err
		}
	}

	if p, ok, err := sub("social"); err != nil {
		return b, err
	} else if ok {
		socials, err := LoadSocials(p)
		if err != nil {
			return b, err
		}
		if len(socials) > 0 {
			b.Socials = socials
		}
	}

	if p, ok, err := sub("world"); err != nil {
		return b, err
	} else if ok {
		files, err := filepath.Glob(filepath.Join(p, "*.yaml"))
		if err != nil {
			return b, err
		}
		sort.Strings(files)
		switch len(files) {
		case 0:
		case 1:
			if b.World, err = world.LoadMapFromFile(files[0]); err != nil {
				return b, err
			}
		default:
			return b, fmt.Errorf("content %q: expected one world map, found %d", p, len(files))
		}
	}

	if p, ok, err := sub(filepath.Join("scripts", ai.ScriptNamespace)); err != nil {
		return b, err
	} else if ok {
		b.ScriptDir = p
	}
	return b, nil
}
