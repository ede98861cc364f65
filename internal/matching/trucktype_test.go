package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonTruckType(t *testing.T) {
	// Многоязычные написания сводятся к одному коду
	assert.Equal(t, TruckTypeTent, CanonTruckType("тент"))
	assert.Equal(t, TruckTypeTent, CanonTruckType("  Тент "))
	assert.Equal(t, TruckTypeTent, CanonTruckType("tarp"))
	assert.Equal(t, TruckTypeTent, CanonTruckType("ტენტი"))
	assert.Equal(t, TruckTypeRefr, CanonTruckType("Рефрижератор"))
	assert.Equal(t, TruckTypeRefr, CanonTruckType("reefer"))
	assert.Equal(t, TruckTypeRefrTent, CanonTruckType("Реф+Тент"))
	assert.Equal(t, TruckTypeRefrTent, CanonTruckType("реф тент"))

	// "й" после снятия диакритики превращается в "и" — алиасы
	// с ней всё равно должны находиться
	assert.Equal(t, TruckTypeTent, CanonTruckType("тентованный"))
	assert.Equal(t, TruckTypeBort, CanonTruckType("Бортовой"))
}

func TestCanonTruckTypeIdempotent(t *testing.T) {
	inputs := []string{"тент", "Реф+Тент", "reefer", "фура какая-то", "", "izoterm"}
	for _, in := range inputs {
		once := CanonTruckType(in)
		assert.Equal(t, once, CanonTruckType(once), "canon должен быть идемпотентен для %q", in)
	}
}

func TestTruckTypesCompatible(t *testing.T) {
	// Комби реф+тент совместим с обоими компонентами
	assert.True(t, TruckTypesCompatible("refr_tent", "refr"))
	assert.True(t, TruckTypesCompatible("refr_tent", "tent"))
	assert.True(t, TruckTypesCompatible("реф", "реф+тент"))

	// Но сами компоненты между собой — нет
	assert.False(t, TruckTypesCompatible("tent", "refr"))
	assert.False(t, TruckTypesCompatible("тент", "рефрижератор"))

	// Любой тип совместим сам с собой, включая неизвестные
	assert.True(t, TruckTypesCompatible("tent", "тент"))
	assert.True(t, TruckTypesCompatible("самосвал", "dump truck"))
	assert.True(t, TruckTypesCompatible("нечто странное", "Нечто Странное"))
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "тбилиси", NormalizeLabel("  Тбилиси "))
	assert.Equal(t, "tbilisi", NormalizeLabel("Tbilisi"))
	assert.Equal(t, "два слова", NormalizeLabel("Два   Слова"))
	assert.Equal(t, "", NormalizeLabel("   "))
}
