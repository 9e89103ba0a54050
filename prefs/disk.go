package prefs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// WarningBoilerPlate is written as the first line of every preferences
// file saved by Save, warning against hand-editing.
const WarningBoilerPlate = "# this file is machine generated - edit with care"

// Disk binds named pref values to a single on-disk key :: value file.
type Disk struct {
	crit sync.Mutex
	path string
	keys []string
	vals map[string]pref
}

// NewDisk prepares a Disk backed by path. The file does not need to exist
// yet; it's created on the first Save.
func NewDisk(path string) (*Disk, error) {
	return &Disk{
		path: path,
		keys: make([]string, 0),
		vals: make(map[string]pref),
	}, nil
}

// Add registers p under key. If the file on disk already has a value for
// key, it is applied to p immediately.
func (d *Disk) Add(key string, p pref) error {
	d.crit.Lock()
	if _, ok := d.vals[key]; ok {
		d.crit.Unlock()
		return fmt.Errorf("prefs: key %q already registered", key)
	}
	d.keys = append(d.keys, key)
	d.vals[key] = p
	d.crit.Unlock()

	return d.loadKey(key)
}

func (d *Disk) loadKey(key string) error {
	f, err := os.Open(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	d.crit.Lock()
	p, ok := d.vals[key]
	d.crit.Unlock()
	if !ok {
		return nil
	}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		k, v, ok := splitPrefLine(sc.Text())
		if !ok || k != key {
			continue
		}
		return p.Set(v)
	}
	return sc.Err()
}

// Load re-reads every registered pref's value from disk. If strict is
// true, an unrecognised or defunct key in the file is an error; otherwise
// it's silently skipped.
func (d *Disk) Load(strict bool) error {
	f, err := os.Open(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, val, ok := splitPrefLine(sc.Text())
		if !ok {
			continue
		}

		if isDefunct(key) {
			continue
		}

		d.crit.Lock()
		p, ok := d.vals[key]
		d.crit.Unlock()

		if !ok {
			if strict {
				return fmt.Errorf("prefs: unrecognised key %q in %s", key, d.path)
			}
			continue
		}

		if err := p.Set(val); err != nil {
			return err
		}
	}
	return sc.Err()
}

// Save writes every registered pref's current value to disk, together with
// any other key already in the file, sorted by key for a stable diff.
func (d *Disk) Save() error {
	d.crit.Lock()
	defer d.crit.Unlock()

	entries := make(map[string]string)
	if data, err := os.ReadFile(d.path); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if k, v, ok := splitPrefLine(line); ok {
				entries[k] = v
			}
		}
	}
	for _, k := range d.keys {
		entries[k] = d.vals[k].String()
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	s.WriteString(WarningBoilerPlate)
	s.WriteString("\n")
	for _, k := range keys {
		fmt.Fprintf(&s, "%s :: %s\n", k, entries[k])
	}

	return os.WriteFile(d.path, []byte(s.String()), 0o644)
}

func splitPrefLine(line string) (key, value string, ok bool) {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return "", "", false
	}
	kv := strings.SplitN(line, "::", 2)
	if len(kv) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1]), true
}
