package campaign

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// campaignFile is the top-level structure of a campaign YAML file.
//
// Example:
//
//	campaign:
//	  name: "The Lost Mine of Phandelver"
//	  system: "dnd5e"
//	  rule_set: "srd"
//	  state: "exploration"
type campaignFile struct {
	Campaign Campaign `yaml:"campaign"`
}

// FSStore persists one campaign under a directory:
//
//	<dir>/campaign.yaml                    metadata and state
//	<dir>/journal.txt                      campaign journal
//	<dir>/characters/<name>.yaml           character sheet
//	<dir>/characters/<name>.journal.txt    character journal
//
// Journal appends are serialized with an internal mutex and flushed to disk
// before the call returns. All operations are safe for concurrent use.
type FSStore struct {
	dir string
	mu  sync.Mutex
}

// NewFSStore creates a store rooted at dir. The directory must exist.
func NewFSStore(dir string) (*FSStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("campaign: stat store dir %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("campaign: store path %q is not a directory", dir)
	}
	return &FSStore{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *FSStore) Dir() string {
	return s.dir
}

// Load reads the full campaign: metadata, journal, and all character sheets
// with their journals. Missing journal files load as empty text.
func (s *FSStore) Load() (*Campaign, error) {
	f, err := os.Open(filepath.Join(s.dir, "campaign.yaml"))
	if err != nil {
		return nil, fmt.Errorf("campaign: open campaign file: %w", err)
	}
	defer f.Close()

	c, err := loadCampaignFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("campaign: parse campaign file: %w", err)
	}
	if !c.State.IsValid() {
		return nil, fmt.Errorf("campaign: unknown state %q in campaign file", c.State)
	}

	c.Journal, err = s.readText(filepath.Join(s.dir, "journal.txt"))
	if err != nil {
		return nil, err
	}

	c.Characters = map[string]*Character{}
	if err := s.loadCharacters(c); err != nil {
		return nil, err
	}
	return c, nil
}

// loadCampaignFromReader parses campaign YAML from an [io.Reader].
func loadCampaignFromReader(r io.Reader) (*Campaign, error) {
	var cf campaignFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // reject unknown top-level keys to catch typos
	if err := dec.Decode(&cf); err != nil {
		return nil, fmt.Errorf("decode campaign yaml: %w", err)
	}
	return &cf.Campaign, nil
}

// loadCharacters reads every sheet under characters/ into c.
func (s *FSStore) loadCharacters(c *Campaign) error {
	charDir := filepath.Join(s.dir, "characters")
	entries, err := os.ReadDir(charDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("campaign: read characters dir: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}

		char, err := loadCharacterFile(filepath.Join(charDir, name))
		if err != nil {
			return err
		}
		char.Journal, err = s.readText(characterJournalPath(charDir, char.Name))
		if err != nil {
			return err
		}
		c.Characters[char.Name] = char
	}
	return nil
}

// loadCharacterFile reads and parses one character sheet.
func loadCharacterFile(path string) (*Character, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("campaign: open character file %q: %w", path, err)
	}
	defer f.Close()

	var char Character
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&char); err != nil {
		return nil, fmt.Errorf("campaign: parse character file %q: %w", path, err)
	}
	if char.Name == "" {
		return nil, fmt.Errorf("campaign: character file %q has no name", path)
	}
	return &char, nil
}

// AppendJournal appends entry to the campaign journal with a blank-line
// separator and persists it before returning. c's in-memory journal is
// updated to match the persisted text.
func (s *FSStore) AppendJournal(c *Campaign, entry string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	joined := joinJournal(c.Journal, entry)
	if err := s.writeText(filepath.Join(s.dir, "journal.txt"), joined); err != nil {
		return fmt.Errorf("campaign: persist journal: %w", err)
	}
	c.Journal = joined
	return nil
}

// AppendCharacterJournal appends entry to the named character's journal with a
// blank-line separator and persists it before returning.
func (s *FSStore) AppendCharacterJournal(c *Campaign, name, entry string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	char := c.Character(name)
	if char == nil {
		return fmt.Errorf("campaign: no character named %q", name)
	}

	charDir := filepath.Join(s.dir, "characters")
	if err := os.MkdirAll(charDir, 0o755); err != nil {
		return fmt.Errorf("campaign: create characters dir: %w", err)
	}

	joined := joinJournal(char.Journal, entry)
	if err := s.writeText(characterJournalPath(charDir, name), joined); err != nil {
		return fmt.Errorf("campaign: persist %q journal: %w", name, err)
	}
	char.Journal = joined
	return nil
}

// SaveState rewrites the campaign metadata file with c's current fields.
// Journals and character sheets are untouched.
func (s *FSStore) SaveState(c *Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !c.State.IsValid() {
		return fmt.Errorf("campaign: refusing to persist unknown state %q", c.State)
	}

	data, err := yaml.Marshal(campaignFile{Campaign: *c})
	if err != nil {
		return fmt.Errorf("campaign: encode campaign file: %w", err)
	}
	if err := s.writeText(filepath.Join(s.dir, "campaign.yaml"), string(data)); err != nil {
		return fmt.Errorf("campaign: persist campaign file: %w", err)
	}
	return nil
}

// SaveCharacter persists the character's sheet (not its journal) and adds it
// to c's character set.
func (s *FSStore) SaveCharacter(c *Campaign, char *Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if char.Name == "" {
		return fmt.Errorf("campaign: character name must not be empty")
	}

	charDir := filepath.Join(s.dir, "characters")
	if err := os.MkdirAll(charDir, 0o755); err != nil {
		return fmt.Errorf("campaign: create characters dir: %w", err)
	}

	data, err := yaml.Marshal(char)
	if err != nil {
		return fmt.Errorf("campaign: encode character %q: %w", char.Name, err)
	}
	if err := s.writeText(filepath.Join(charDir, char.Name+".yaml"), string(data)); err != nil {
		return fmt.Errorf("campaign: persist character %q: %w", char.Name, err)
	}
	c.Characters[char.Name] = char
	return nil
}

// CampaignJournal reads the campaign journal fresh from disk, so edits made
// by other tools show up on the next read.
func (s *FSStore) CampaignJournal() (string, error) {
	return s.readText(filepath.Join(s.dir, "journal.txt"))
}

// CharacterJournal reads the named character's journal fresh from disk.
func (s *FSStore) CharacterJournal(name string) (string, error) {
	return s.readText(characterJournalPath(filepath.Join(s.dir, "characters"), name))
}

// ReadCharacter reads the named character's sheet fresh from disk, without
// its journal. External edits to the sheet file show up on the next read.
func (s *FSStore) ReadCharacter(name string) (*Character, error) {
	return loadCharacterFile(filepath.Join(s.dir, "characters", name+".yaml"))
}

// characterJournalPath returns the journal file path for one character.
func characterJournalPath(charDir, name string) string {
	return filepath.Join(charDir, name+".journal.txt")
}

// joinJournal concatenates entry after existing with a blank-line separator.
// An empty existing journal yields the entry alone, with no leading separator.
func joinJournal(existing, entry string) string {
	if existing == "" {
		return entry
	}
	return existing + "\n\n" + entry
}

// readText reads a whole text file; a missing file reads as empty.
func (s *FSStore) readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("campaign: read %q: %w", path, err)
	}
	return string(data), nil
}

// writeText writes a whole text file.
func (s *FSStore) writeText(path, text string) error {
	return os.WriteFile(path, []byte(text), 0o644)
}
