package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer убирает диакритику: NFD-разложение, выбрасывание
// комбинируемых знаков, обратная сборка в NFC.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeLabel приводит свободный текст (тип кузова, город) к
// канонической форме для сравнения: нижний регистр, без диакритики,
// схлопнутые пробелы. Пользовательский ввод приходит на разных языках
// и в разном написании, поэтому сравнивать сырые строки нельзя.
func NormalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		s = folded
	}
	s = strings.ReplaceAll(s, "ё", "е")
	return strings.Join(strings.Fields(s), " ")
}
