package studio

const (
	workshopHeroImage = "https://images.unsplash.com/photo-1486262715619-67b85e0b08d3?q=80&w=2000"
	promoVideoURL     = "https://www.youtube.com/embed/ScMzIvxBSi4"
	legalBody         = "1. Introducción\nAl acceder a este sitio web, asumimos que aceptas estos términos y condiciones en su totalidad.\n\n2. Licencia\nA menos que se indique lo contrario, nosotros y/o nuestros licenciantes poseemos los derechos de propiedad intelectual..."
)

// videoTemplates swap the home categories grid for a promotional video.
var videoTemplates = map[string]bool{"t2": true, "t6": true}

// TemplateInfo describes a template for pickers.
type TemplateInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Dark     bool   `json:"dark"`
	Accent   string `json:"accent"`
	Video    bool   `json:"video"`
}

// Templates lists the available templates ordered by id.
func Templates() []TemplateInfo {
	list := Themes()
	out := make([]TemplateInfo, 0, len(list))
	for _, theme := range list {
		out = append(out, TemplateInfo{
			ID:       theme.ID,
			Name:     theme.Name,
			Category: theme.Category,
			Dark:     theme.Dark,
			Accent:   theme.Accent,
			Video:    videoTemplates[theme.ID],
		})
	}
	return out
}

// Generator builds site schemas from template ids.
type Generator struct {
	ids IDGenerator
}

// NewGenerator returns a generator issuing ids from ids (uuid v4 when nil).
func NewGenerator(ids IDGenerator) *Generator {
	return &Generator{ids: normalizeIDs(ids)}
}

// Generate builds the six-page site for a template. Unknown ids use the default theme.
// Every call issues fresh ids; header and footer are rebuilt per page so ids never
// repeat across pages.
func Generate(templateID string) SiteSchema {
	return NewGenerator(nil).Generate(templateID)
}

// Generate builds the six-page site for a template.
func (g *Generator) Generate(templateID string) SiteSchema {
	theme := ThemeFor(templateID)
	site := SiteSchema{}
	for _, page := range Pages {
		site[page] = g.Page(theme, page)
	}
	return site
}

// Page builds a single page for a theme.
func (g *Generator) Page(theme Theme, page PageName) PageSchema {
	schema := PageSchema{
		Header: g.header(theme),
		Footer: g.footer(theme),
		Body:   Zone{Styles: Styles{"backgroundColor": theme.Background}},
	}
	switch page {
	case PageHome:
		schema.Body.Elements = g.homeBody(theme)
	case PageCollections:
		schema.Body.Elements = g.collectionsBody(theme)
	case PageProducts:
		schema.Body.Elements = g.productsBody(theme)
	case PageAbout:
		schema.Body.Elements = g.aboutBody(theme)
	case PageLegal:
		schema.Body.Elements = g.legalBody(theme)
	case PageCheckout:
		schema.Footer = Zone{Styles: Styles{}}
		schema.Body.Elements = g.checkoutBody(theme)
		schema.Body.Styles = Styles{"backgroundColor": checkoutBackdrop(theme)}
	}
	return schema
}

func (g *Generator) node(props Props, children ...Node) Node {
	return Node{
		ID:       g.ids.NewID(),
		Type:     props.Kind(),
		Props:    assignCardIDs(props, g.ids),
		Children: children,
	}
}

func (g *Generator) header(theme Theme) Zone {
	nav := NewNavbarProps()
	nav.LogoText = "TU TIENDA"
	nav.BgColor = theme.Background
	nav.MenuColor = theme.Text
	nav.MenuFont = theme.Font
	nav.LogoColor = theme.Accent
	nav.Align = theme.NavAlign
	nav.Variant = theme.NavVariant
	nav.MenuItems = []Link{
		{Label: "Inicio", URL: "/"},
		{Label: "Catálogo", URL: "/productos"},
		{Label: "Nosotros", URL: "/nosotros"},
	}
	return Zone{
		Elements: []Node{g.node(nav)},
		Styles:   Styles{"backgroundColor": theme.Background},
	}
}

func (g *Generator) footer(theme Theme) Zone {
	footer := NewFooterProps()
	footer.LogoText = "TU TIENDA"
	footer.BgColor = theme.Surface()
	footer.TextColor = "#1f2937"
	if theme.Dark {
		footer.TextColor = "#ffffff"
	}
	footer.AccentColor = theme.Accent
	return Zone{
		Elements: []Node{g.node(footer)},
		Styles:   Styles{"backgroundColor": theme.Surface()},
	}
}

func (g *Generator) homeBody(theme Theme) []Node {
	hero := NewHeroBannerProps()
	hero.Title = "NUEVA COLECCIÓN"
	hero.Subtitle = "Descubre los productos que definen tendencia este año."
	hero.TitleColor = contrastText(theme)
	hero.TitleFont = theme.Font
	hero.ImageURL = defaultHeroImage
	if theme.ID == "t4" {
		hero.ImageURL = workshopHeroImage
	}
	hero.Height = 600
	hero.Variant = theme.HeroVariant
	hero.PrimaryBtnText = "Ver Catálogo"
	hero.PrimaryBtnBgColor = theme.Accent

	var feature Node
	if videoTemplates[theme.ID] {
		video := NewVideoProps()
		video.Title = "Descubre la experiencia"
		video.VideoURL = promoVideoURL
		video.TitleColor = theme.Text
		feature = g.node(video)
	} else {
		cats := NewCategoriesGridProps()
		cats.CardStyle = theme.CardStyle
		cats.CatTitleFont = theme.Font
		feature = g.node(cats)
	}

	grid := NewProductGridProps()
	grid.Title = "Más Vendidos"
	grid.PriceColor = theme.Accent
	grid.PriceFont = theme.Font
	grid.CardBorderRadius = theme.Radius
	grid.CardStyle = theme.CardStyle

	return []Node{g.node(hero), feature, g.node(grid)}
}

func (g *Generator) collectionsBody(theme Theme) []Node {
	master := NewProductMasterViewProps()
	master.TitleColor = theme.Text
	master.TitleFont = theme.Font
	master.PriceColor = theme.Accent
	master.PriceFont = theme.Font

	related := NewProductGridProps()
	related.Title = "Productos Relacionados"
	related.PriceColor = theme.Accent
	related.PriceFont = theme.Font
	related.CardBorderRadius = theme.Radius

	return []Node{g.node(master), g.node(related)}
}

func (g *Generator) productsBody(theme Theme) []Node {
	hero := NewHeroBannerProps()
	hero.Title = "CATÁLOGO COMPLETO"
	hero.Subtitle = ""
	hero.Height = 300
	hero.TitleSize = 40
	hero.TitleColor = "#ffffff"
	hero.TitleFont = theme.Font
	hero.OverlayOpacity = 60
	hero.PrimaryBtnText = ""
	hero.PrimaryBtnBgColor = theme.Accent

	grid := NewProductGridProps()
	grid.Title = ""
	grid.ItemsCount = 20
	grid.ShowFilters = true
	grid.FilterStyle = "list"
	grid.PriceColor = theme.Accent
	grid.PriceFont = theme.Font
	grid.CardBorderRadius = theme.Radius

	return []Node{g.node(hero), g.node(grid)}
}

func (g *Generator) aboutBody(theme Theme) []Node {
	hero := NewHeroBannerProps()
	hero.Title = "NUESTRA HISTORIA"
	hero.Subtitle = ""
	hero.Height = 400
	hero.BgType = "color"
	hero.BgColor = "#f3f4f6"
	if theme.Dark {
		hero.BgColor = "#1f2937"
	}
	hero.TitleColor = theme.Text
	hero.TitleFont = theme.Font
	hero.PrimaryBtnText = ""
	hero.PrimaryBtnBgColor = theme.Accent

	story := NewTextProps()
	story.Content = "Somos una empresa dedicada a ofrecer la mejor calidad..."
	story.Color = theme.Text
	story.FontFamily = theme.Font
	story.FontSize = 18
	story.Align = "left"

	cards := NewCardsProps()
	cards.BorderRadius = theme.Radius
	cards.Cards = []Card{
		{Title: "Misión", Description: "Innovar constantemente.", Icon: "Rocket", IconColor: theme.Accent, BgColor: theme.Background},
		{Title: "Visión", Description: "Liderar el mercado global.", Icon: "Eye", IconColor: theme.Accent, BgColor: theme.Background},
		{Title: "Valores", Description: "Integridad y Pasión.", Icon: "Heart", IconColor: theme.Accent, BgColor: theme.Background},
	}

	section := NewSectionProps()
	section.BgColor = theme.Background

	return []Node{g.node(hero), g.node(section, g.node(story), g.node(cards))}
}

func (g *Generator) legalBody(theme Theme) []Node {
	title := NewTextProps()
	title.Content = "TÉRMINOS Y CONDICIONES"
	title.FontSize = 32
	title.FontFamily = "font-black"
	title.Color = theme.Text
	title.Align = "center"

	body := NewTextProps()
	body.Content = legalBody
	body.FontSize = 14
	body.FontFamily = theme.Font
	body.Color = "#4b5563"
	if theme.Dark {
		body.Color = "#9ca3af"
	}
	body.Align = "left"

	return []Node{g.node(title), g.node(body)}
}

func (g *Generator) checkoutBody(theme Theme) []Node {
	checkout := NewCheckoutProps()
	checkout.Title = defaultCheckoutTitle
	checkout.ThemeColor = theme.Background
	checkout.AccentColor = theme.Accent
	checkout.FontFamily = theme.Font
	checkout.BorderRadius = theme.Radius
	return []Node{g.node(checkout)}
}

func contrastText(theme Theme) string {
	if theme.Dark {
		return "#ffffff"
	}
	return "#000000"
}

func checkoutBackdrop(theme Theme) string {
	if theme.Dark {
		return "#000000"
	}
	return "#f8fafc"
}
