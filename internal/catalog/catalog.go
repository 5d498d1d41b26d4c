// Package catalog хранит справочник категорий трат.
//
// Справочник фиксируется при старте: либо встроенный набор по умолчанию,
// либо внешний TOML-файл. Эволюция справочника только аддитивная, поэтому
// записи со старыми категориями, которых больше нет в справочнике,
// сворачиваются в служебную категорию Unknown, а не теряются.
package catalog

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Unknown - служебная категория для записей, чья категория
// отсутствует в текущем справочнике.
const Unknown = "неизвестная категория"

// Category - значение категории из справочника. Сравнение по значению.
type Category string

// Catalog - упорядоченный набор категорий.
type Catalog struct {
	values []Category
	index  map[Category]int
}

// Default возвращает встроенный справочник.
func Default() *Catalog {
	c, err := New([]string{
		"фастфуд - съел сам",
		"еда",
		"ребенку",
		"развлечения",
		"садик",
		"коммунальные услуги",
		"транспорт",
		"самокат",
		"одежда",
		"рестораны",
		"аптека",
		"перекусы лишние",
		"кредиты",
		"каршеринг",
		"медицина",
		"подписки",
	})
	if err != nil {
		// встроенный набор всегда валиден
		panic(err)
	}
	return c
}

// New строит справочник из списка значений, сохраняя порядок.
func New(values []string) (*Catalog, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("catalog cannot be empty")
	}

	c := &Catalog{
		values: make([]Category, 0, len(values)),
		index:  make(map[Category]int, len(values)),
	}
	for _, v := range values {
		if v == "" {
			return nil, fmt.Errorf("catalog contains an empty category")
		}
		if v == Unknown {
			return nil, fmt.Errorf("category %q is reserved", Unknown)
		}
		cat := Category(v)
		if _, exists := c.index[cat]; exists {
			return nil, fmt.Errorf("duplicate category %q", v)
		}
		c.index[cat] = len(c.values)
		c.values = append(c.values, cat)
	}
	return c, nil
}

type catalogFile struct {
	Version    int      `toml:"version"`
	Categories []string `toml:"categories"`
}

// LoadFile читает справочник из TOML-файла.
func LoadFile(path string) (*Catalog, error) {
	var file catalogFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file: %w", err)
	}
	if file.Version < 1 {
		return nil, fmt.Errorf("catalog file %s: version must be >= 1", path)
	}

	c, err := New(file.Categories)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return c, nil
}

// Values возвращает категории в порядке справочника.
func (c *Catalog) Values() []Category {
	out := make([]Category, len(c.values))
	copy(out, c.values)
	return out
}

func (c *Catalog) Len() int {
	return len(c.values)
}

// Contains проверяет наличие значения в справочнике.
func (c *Catalog) Contains(value string) bool {
	_, ok := c.index[Category(value)]
	return ok
}

// IndexOf возвращает позицию категории в справочнике, -1 если её нет.
func (c *Catalog) IndexOf(value string) int {
	if i, ok := c.index[Category(value)]; ok {
		return i
	}
	return -1
}

// Normalize приводит сохранённое значение категории к справочнику:
// известные значения возвращаются как есть, остальные - как Unknown.
func (c *Catalog) Normalize(value string) string {
	if c.Contains(value) {
		return value
	}
	return Unknown
}
