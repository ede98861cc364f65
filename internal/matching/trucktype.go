package matching

// Канонические коды типов кузова
const (
	TruckTypeTent      = "tent"      // тентованный
	TruckTypeRefr      = "refr"      // рефрижератор
	TruckTypeRefrTent  = "refr_tent" // комби реф+тент
	TruckTypeIzoterm   = "izoterm"
	TruckTypeBort      = "bort"
	TruckTypeKonteiner = "konteiner"
	TruckTypeSamosval  = "samosval"
	TruckTypeCisterna  = "cisterna"
)

// rawTruckTypeAliases: многоязычные написания → канонический код.
// Ключи прогоняются через NormalizeLabel при инициализации (см. init),
// потому что нормализация меняет сами буквы ("й" → "и" после
// снятия диакритики) и литералы ей не совпадают.
var rawTruckTypeAliases = map[string]string{
	// тент
	TruckTypeTent: TruckTypeTent,
	"тент":        TruckTypeTent,
	"тентованный": TruckTypeTent,
	"тентованная": TruckTypeTent,
	"tilt":        TruckTypeTent,
	"tarp":        TruckTypeTent,
	"ტენტი":       TruckTypeTent,

	// реф
	TruckTypeRefr:  TruckTypeRefr,
	"реф":          TruckTypeRefr,
	"рефрижератор": TruckTypeRefr,
	"ref":          TruckTypeRefr,
	"reefer":       TruckTypeRefr,
	"refrigerator": TruckTypeRefr,
	"холодильник":  TruckTypeRefr,
	"რეფი":         TruckTypeRefr,

	// комби реф+тент
	TruckTypeRefrTent: TruckTypeRefrTent,
	"реф+тент":        TruckTypeRefrTent,
	"реф-тент":        TruckTypeRefrTent,
	"реф тент":        TruckTypeRefrTent,
	"ref+tent":        TruckTypeRefrTent,
	"reefer+tarp":     TruckTypeRefrTent,

	// изотерм
	TruckTypeIzoterm: TruckTypeIzoterm,
	"изотерм":        TruckTypeIzoterm,
	"изотермический": TruckTypeIzoterm,
	"isotherm":       TruckTypeIzoterm,
	"insulated":      TruckTypeIzoterm,

	// борт
	TruckTypeBort: TruckTypeBort,
	"борт":        TruckTypeBort,
	"бортовой":    TruckTypeBort,
	"flatbed":     TruckTypeBort,
	"ბორტი":       TruckTypeBort,

	// контейнеровоз
	TruckTypeKonteiner: TruckTypeKonteiner,
	"контейнер":        TruckTypeKonteiner,
	"контейнеровоз":    TruckTypeKonteiner,
	"container":        TruckTypeKonteiner,

	// самосвал
	TruckTypeSamosval: TruckTypeSamosval,
	"самосвал":        TruckTypeSamosval,
	"dump":            TruckTypeSamosval,
	"dump truck":      TruckTypeSamosval,

	// цистерна
	TruckTypeCisterna: TruckTypeCisterna,
	"цистерна":        TruckTypeCisterna,
	"tank":            TruckTypeCisterna,
	"tanker":          TruckTypeCisterna,
}

var truckTypeAliases map[string]string

func init() {
	truckTypeAliases = make(map[string]string, len(rawTruckTypeAliases))
	for alias, code := range rawTruckTypeAliases {
		truckTypeAliases[NormalizeLabel(alias)] = code
	}
}

// CanonTruckType приводит свободный текст к каноническому коду.
// Неизвестные значения возвращаются в нормализованном виде,
// поэтому функция идемпотентна: canon(canon(x)) == canon(x).
func CanonTruckType(raw string) string {
	n := NormalizeLabel(raw)
	if code, ok := truckTypeAliases[n]; ok {
		return code
	}
	return n
}

// TruckTypesCompatible проверяет совместимость двух типов кузова.
// Правило одно: комби "реф+тент" совместим и с рефом, и с тентом;
// все остальные типы совпадают только сами с собой.
func TruckTypesCompatible(a, b string) bool {
	ca, cb := CanonTruckType(a), CanonTruckType(b)
	if ca == cb {
		return true
	}
	if ca == TruckTypeRefrTent && (cb == TruckTypeRefr || cb == TruckTypeTent) {
		return true
	}
	if cb == TruckTypeRefrTent && (ca == TruckTypeRefr || ca == TruckTypeTent) {
		return true
	}
	return false
}
