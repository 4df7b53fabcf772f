package canvas

// Section names of the project model canvas, in display order.
const (
	Justificativas = "justificativas"
	ObjSmart       = "objsmart"
	Beneficios     = "beneficios"
	Produto        = "produto"
	Requisitos     = "requisitos"
	Stakeholders   = "stakeholders"
	Equipe         = "equipe"
	Premissas      = "premissas"
	GrupoDeEntrega = "grupoDeEntrega"
	Restricoes     = "restricoes"
	Riscos         = "riscos"
	LinhaDoTempo   = "linhaDoTempo"
	Custos         = "custos"
)

var Sections = []string{
	Justificativas,
	ObjSmart,
	Beneficios,
	Produto,
	Requisitos,
	Stakeholders,
	Equipe,
	Premissas,
	GrupoDeEntrega,
	Restricoes,
	Riscos,
	LinhaDoTempo,
	Custos,
}

// Layout is a widget's position and size in grid units.
type Layout struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Five columns, two grid units wide; three-section columns use h=4, two-section
// columns use h=6.
var defaultLayouts = map[string]Layout{
	Justificativas: {X: 0, Y: 0, W: 2, H: 4},
	ObjSmart:       {X: 0, Y: 4, W: 2, H: 4},
	Beneficios:     {X: 0, Y: 8, W: 2, H: 4},
	Produto:        {X: 2, Y: 0, W: 2, H: 6},
	Requisitos:     {X: 2, Y: 6, W: 2, H: 6},
	Stakeholders:   {X: 4, Y: 0, W: 2, H: 6},
	Equipe:         {X: 4, Y: 6, W: 2, H: 6},
	Premissas:      {X: 6, Y: 0, W: 2, H: 4},
	GrupoDeEntrega: {X: 6, Y: 4, W: 2, H: 4},
	Restricoes:     {X: 6, Y: 8, W: 2, H: 4},
	Riscos:         {X: 8, Y: 0, W: 2, H: 4},
	LinhaDoTempo:   {X: 8, Y: 4, W: 2, H: 4},
	Custos:         {X: 8, Y: 8, W: 2, H: 4},
}

// DefaultLayout returns the initial widget placement for section.
func DefaultLayout(section string) Layout {
	return defaultLayouts[section]
}

// IsSection reports whether name is one of the fixed canvas sections.
func IsSection(name string) bool {
	_, ok := defaultLayouts[name]
	return ok
}

// Display metrics used to derive how many notes fit in a widget.
const (
	DefaultRowHeightPx = 30
	HeaderHeightPx     = 40
	ItemHeightPx       = 32
	MinItems           = 3
)

// MaxItemsFor returns how many notes fit in a widget h rows tall, never fewer
// than MinItems.
func MaxItemsFor(h, rowHeightPx int) int {
	if rowHeightPx <= 0 {
		rowHeightPx = DefaultRowHeightPx
	}
	fit := (h*rowHeightPx - HeaderHeightPx) / ItemHeightPx
	if fit < MinItems {
		return MinItems
	}
	return fit
}
