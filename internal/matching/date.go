package matching

import (
	"fmt"
	"strings"
	"time"
)

// Форматы дат в порядке приоритета: первый распарсившийся побеждает.
// Порядок важен: "01/05/2024" — это день/месяц/год, не наоборот.
var dateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"02.01.2006",
}

// ParseFlexibleDate парсит дату из пользовательского ввода.
func ParseFlexibleDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", raw)
}

// rawPermanentAliases — написания режима "постоянно готов".
// Нормализуются при инициализации, как и алиасы типов кузова.
var rawPermanentAliases = []string{
	"постоянно",
	"всегда",
	"круглосуточно",
	"permanent",
	"always",
	"constant",
	"მუდმივად",
	"ყოველთვის",
}

var permanentAliases map[string]bool

func init() {
	permanentAliases = make(map[string]bool, len(rawPermanentAliases))
	for _, a := range rawPermanentAliases {
		permanentAliases[NormalizeLabel(a)] = true
	}
}

// IsPermanentMode распознаёт режим постоянной доступности транспорта,
// при котором проверка дат полностью пропускается.
func IsPermanentMode(mode string) bool {
	return permanentAliases[NormalizeLabel(mode)]
}

// DateWindowContains проверяет, попадает ли дата погрузки в окно
// готовности [from, to] включительно. Все три даты обязаны распарситься.
func DateWindowContains(loadDate, from, to string) (bool, error) {
	load, err := ParseFlexibleDate(loadDate)
	if err != nil {
		return false, fmt.Errorf("load date: %w", err)
	}
	start, err := ParseFlexibleDate(from)
	if err != nil {
		return false, fmt.Errorf("ready date from: %w", err)
	}
	end, err := ParseFlexibleDate(to)
	if err != nil {
		return false, fmt.Errorf("ready date to: %w", err)
	}
	return !load.Before(start) && !load.After(end), nil
}
