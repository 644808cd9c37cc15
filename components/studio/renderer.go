package studio

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/ettle/strcase"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderMode selects storefront or editor output.
type RenderMode int

const (
	ModeStorefront RenderMode = iota
	ModeEditor
)

func (m RenderMode) String() string {
	if m == ModeEditor {
		return "editor"
	}
	return "storefront"
}

// DefaultSelectAction names the client action editor nodes dispatch on click.
const DefaultSelectAction = "studio:select"

// CheckoutContinueAction names the client action of the checkout continue button.
const CheckoutContinueAction = "checkout:continue"

// RenderOptions controls one render pass.
type RenderOptions struct {
	Mode         RenderMode
	SelectedID   string
	SelectAction string
	Viewport     Viewport
	Checkout     CheckoutStates
}

func (o RenderOptions) editor() bool { return o.Mode == ModeEditor }

func (o RenderOptions) step(nodeID string) CheckoutStep {
	if o.Checkout == nil {
		return FirstCheckoutStep
	}
	if step := o.Checkout.CheckoutStep(nodeID); step >= FirstCheckoutStep && step <= LastCheckoutStep {
		return step
	}
	return FirstCheckoutStep
}

// PageRenderer turns descriptor lists into HTML. It holds no state.
type PageRenderer struct{}

// NewPageRenderer returns a renderer.
func NewPageRenderer() *PageRenderer {
	return &PageRenderer{}
}

// Render writes the HTML for nodes to w. Unknown component types produce no output.
func (r *PageRenderer) Render(w io.Writer, nodes []Node, opts RenderOptions) error {
	for _, n := range r.Build(nodes, opts) {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("studio: render %s: %w", opts.Mode, err)
		}
	}
	return nil
}

// RenderString renders nodes into a string.
func (r *PageRenderer) RenderString(nodes []Node, opts RenderOptions) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, nodes, opts); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Build returns the html node trees for nodes.
func (r *PageRenderer) Build(nodes []Node, opts RenderOptions) []*html.Node {
	if opts.SelectAction == "" {
		opts.SelectAction = DefaultSelectAction
	}
	out := make([]*html.Node, 0, len(nodes))
	for _, node := range nodes {
		if built := r.build(node, opts); built != nil {
			out = append(out, built)
		}
	}
	return out
}

func (r *PageRenderer) build(node Node, opts RenderOptions) *html.Node {
	props := effectiveProps(node, opts.Viewport)
	var root *html.Node
	switch p := props.(type) {
	case SectionProps:
		root = renderSection(p)
		appendAll(root, r.Build(node.Children, opts))
	case GridProps:
		root = renderGrid(p)
		appendAll(root, r.Build(node.Children, opts))
	case TextProps:
		root = renderText(p)
	case ButtonProps:
		root = renderButton(p)
	case ImageProps:
		root = renderImage(p)
	case NavbarProps:
		root = renderNavbar(p)
	case HeroBannerProps:
		root = renderHero(p)
	case ProductGridProps:
		root = renderProductGrid(p)
	case CategoriesGridProps:
		root = renderCategories(p)
	case ProductMasterViewProps:
		root = renderProductMaster(p)
	case CardsProps:
		root = renderCards(p)
	case VideoProps:
		root = renderVideo(p)
	case AnnouncementBarProps:
		root = renderAnnouncement(p)
	case FooterProps:
		root = renderFooter(p)
	case CheckoutProps:
		root = renderCheckout(node.ID, p, opts.step(node.ID))
	case WhatsAppProps:
		root = renderWhatsApp(p)
	case CountdownProps:
		root = renderCountdown(p)
	default:
		return nil
	}
	mergeStyle(root, node.Styles)
	addClass(root, "bayup-"+string(node.Type))
	if opts.editor() {
		markEditable(root, node, opts)
	}
	return root
}

// effectiveProps merges the viewport overrides over the base props.
func effectiveProps(node Node, vp Viewport) Props {
	if node.Props == nil {
		props, ok := DefaultProps(node.Type)
		if !ok {
			return nil
		}
		node.Props = props
	}
	if vp == "" || len(node.Overrides[vp]) == 0 {
		return node.Props
	}
	merged, err := MergeProps(node.Props, node.Overrides[vp])
	if err != nil {
		return node.Props
	}
	return merged
}

func markEditable(root *html.Node, node Node, opts RenderOptions) {
	setAttr(root, "data-node-id", node.ID)
	setAttr(root, "data-action", opts.SelectAction)
	addClass(root, "studio-node")
	if node.ID != "" && node.ID == opts.SelectedID {
		addClass(root, "is-selected")
		setAttr(root, "aria-selected", "true")
	}
	neutralizeLinks(root)
}

// neutralizeLinks moves hrefs to data-href so clicks select instead of navigating.
func neutralizeLinks(n *html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		for i, attr := range n.Attr {
			if attr.Key == "href" {
				n.Attr[i].Key = "data-href"
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		neutralizeLinks(c)
	}
}

func renderSection(p SectionProps) *html.Node {
	return el(atom.Section, style(map[string]string{
		"display":         "flex",
		"flexDirection":   p.Direction,
		"gap":             px(p.Gap),
		"padding":         px(p.Padding),
		"alignItems":      p.Align,
		"backgroundColor": p.BgColor,
	}))
}

func renderGrid(p GridProps) *html.Node {
	columns := p.Columns
	if columns <= 0 {
		columns = 1
	}
	return el(atom.Div, style(map[string]string{
		"display":             "grid",
		"gridTemplateColumns": "repeat(" + strconv.Itoa(columns) + ", minmax(0, 1fr))",
		"gap":                 px(p.Gap),
	}))
}

func renderText(p TextProps) *html.Node {
	node := el(atom.P, classAttr(p.FontFamily), style(map[string]string{
		"fontSize":  px(p.FontSize),
		"color":     p.Color,
		"textAlign": p.Align,
	}))
	for i, line := range strings.Split(p.Content, "\n") {
		if i > 0 {
			node.AppendChild(el(atom.Br))
		}
		if line != "" {
			node.AppendChild(text(line))
		}
	}
	return node
}

func renderButton(p ButtonProps) *html.Node {
	return el(atom.A, attr("href", p.URL), classAttr("studio-button "+p.Font+" is-"+p.Variant), style(map[string]string{
		"backgroundColor": p.BgColor,
		"color":           p.TextColor,
		"borderRadius":    px(p.BorderRadius),
		"fontSize":        px(p.Size),
	}), text(p.Text))
}

func renderImage(p ImageProps) *html.Node {
	return el(atom.Img, attr("src", p.Src), attr("alt", p.Alt), style(map[string]string{
		"borderRadius": px(p.Radius),
		"maxWidth":     "100%",
	}))
}

func renderNavbar(p NavbarProps) *html.Node {
	nav := el(atom.Nav, classAttr("is-"+p.Variant), style(map[string]string{
		"backgroundColor": p.BgColor,
		"height":          px(p.NavHeight),
		"justifyContent":  p.Align,
	}))
	nav.AppendChild(el(atom.A, attr("href", "/"), classAttr("studio-logo "+p.MenuFont), style(map[string]string{"color": p.LogoColor}), text(p.LogoText)))
	menu := el(atom.Ul, classAttr("studio-menu"))
	for _, item := range p.MenuItems {
		menu.AppendChild(el(atom.Li, el(atom.A, attr("href", item.URL), style(map[string]string{"color": p.MenuColor}), classAttr(p.MenuFont), text(item.Label))))
	}
	nav.AppendChild(menu)
	utilities := el(atom.Div, classAttr("studio-utilities"))
	for _, u := range []struct {
		show  bool
		name  string
		label string
	}{
		{p.ShowSearch, "search", "Buscar"},
		{p.ShowUser, "user", "Cuenta"},
		{p.ShowCart, "cart", "Carrito"},
	} {
		if u.show {
			utilities.AppendChild(el(atom.Span, attr("data-utility", u.name), attr("aria-label", u.label), style(map[string]string{"color": p.MenuColor})))
		}
	}
	nav.AppendChild(utilities)
	return nav
}

func renderHero(p HeroBannerProps) *html.Node {
	styles := map[string]string{
		"minHeight": px(p.Height),
		"textAlign": p.Align,
	}
	if p.BgType == "image" && p.ImageURL != "" {
		styles["backgroundImage"] = cssURL(p.ImageURL)
		styles["backgroundSize"] = "cover"
	} else {
		styles["backgroundColor"] = p.BgColor
	}
	hero := el(atom.Section, classAttr("is-"+p.Variant), style(styles))
	if p.BgType == "image" && p.OverlayOpacity > 0 {
		hero.AppendChild(el(atom.Div, classAttr("studio-overlay"), style(map[string]string{
			"opacity": strconv.FormatFloat(float64(p.OverlayOpacity)/100, 'f', 2, 64),
		})))
	}
	hero.AppendChild(el(atom.H1, classAttr(p.TitleFont), style(map[string]string{
		"color":    p.TitleColor,
		"fontSize": px(p.TitleSize),
	}), text(p.Title)))
	if p.Subtitle != "" {
		hero.AppendChild(el(atom.P, style(map[string]string{"color": p.TitleColor}), text(p.Subtitle)))
	}
	if p.PrimaryBtnText != "" {
		hero.AppendChild(el(atom.A, attr("href", orDefault(p.PrimaryBtnURL, "/productos")), classAttr("studio-button is-"+p.PrimaryBtnVariant), style(map[string]string{
			"backgroundColor": p.PrimaryBtnBgColor,
		}), text(p.PrimaryBtnText)))
	}
	return hero
}

func renderProductGrid(p ProductGridProps) *html.Node {
	section := el(atom.Section, attr("data-category", p.Category))
	if p.Title != "" {
		section.AppendChild(el(atom.H2, classAttr(p.PriceFont), text(p.Title)))
	}
	if p.ShowFilters {
		section.AppendChild(el(atom.Aside, classAttr("studio-filters is-"+p.FilterStyle), attr("data-slot", "filters")))
	}
	columns := p.Columns
	if columns <= 0 {
		columns = 4
	}
	grid := el(atom.Div, attr("data-slot", "products"), style(map[string]string{
		"display":             "grid",
		"gridTemplateColumns": "repeat(" + strconv.Itoa(columns) + ", minmax(0, 1fr))",
	}))
	for i := 0; i < p.ItemsCount; i++ {
		card := el(atom.Article, classAttr("studio-product is-"+p.CardStyle), attr("data-index", strconv.Itoa(i)), style(map[string]string{
			"borderRadius": px(p.CardBorderRadius),
		}))
		card.AppendChild(el(atom.H3, text("Producto "+strconv.Itoa(i+1))))
		if p.ShowPrice {
			card.AppendChild(el(atom.Span, classAttr("studio-price "+p.PriceFont), style(map[string]string{"color": p.PriceColor}), attr("data-slot", "price")))
		}
		if p.ShowAddToCart {
			card.AppendChild(el(atom.Button, attr("type", "button"), attr("data-action", "cart:add"), text(p.AddToCartText)))
		}
		grid.AppendChild(card)
	}
	section.AppendChild(grid)
	return section
}

func renderCategories(p CategoriesGridProps) *html.Node {
	section := el(atom.Section, classAttr("is-"+p.CardStyle))
	if p.Title != "" {
		section.AppendChild(el(atom.H2, text(p.Title)))
	}
	list := el(atom.Div, classAttr("studio-categories"))
	for _, cat := range p.Categories {
		tile := el(atom.A, attr("href", orDefault(cat.URL, "/colecciones")), classAttr("studio-category"))
		if cat.ImageURL != "" {
			tile.AppendChild(el(atom.Img, attr("src", cat.ImageURL), attr("alt", cat.Name)))
		}
		tile.AppendChild(el(atom.Span, classAttr(p.CatTitleFont), style(map[string]string{"color": p.CatTitleColor}), text(cat.Name)))
		list.AppendChild(tile)
	}
	section.AppendChild(list)
	return section
}

func renderProductMaster(p ProductMasterViewProps) *html.Node {
	view := el(atom.Div, classAttr("studio-product-master"), attr("data-gallery", p.GalleryEffect))
	view.AppendChild(el(atom.Figure, attr("data-slot", "gallery"), style(map[string]string{"width": strconv.Itoa(p.MainImageSize) + "%"})))
	info := el(atom.Div, classAttr("studio-product-info"))
	info.AppendChild(el(atom.H1, classAttr(p.TitleFont), style(map[string]string{"color": p.TitleColor}), attr("data-slot", "title")))
	info.AppendChild(el(atom.Span, classAttr("studio-price "+p.PriceFont), style(map[string]string{"color": p.PriceColor}), attr("data-slot", "price")))
	info.AppendChild(el(atom.Button, attr("type", "button"), attr("data-action", "cart:add"), text("Añadir al Carrito")))
	view.AppendChild(info)
	return view
}

func renderCards(p CardsProps) *html.Node {
	columns := p.Columns
	if columns <= 0 {
		columns = 3
	}
	grid := el(atom.Div, style(map[string]string{
		"display":             "grid",
		"gridTemplateColumns": "repeat(" + strconv.Itoa(columns) + ", minmax(0, 1fr))",
		"gap":                 px(p.Gap),
	}))
	for _, card := range p.Cards {
		article := el(atom.Article, attr("data-card-id", card.ID), style(map[string]string{
			"backgroundColor": card.BgColor,
			"borderRadius":    px(p.BorderRadius),
		}))
		article.AppendChild(el(atom.Span, attr("data-icon", card.Icon), style(map[string]string{"color": card.IconColor})))
		article.AppendChild(el(atom.H3, text(card.Title)))
		article.AppendChild(el(atom.P, text(card.Description)))
		grid.AppendChild(article)
	}
	return grid
}

func renderVideo(p VideoProps) *html.Node {
	section := el(atom.Section, style(map[string]string{"minHeight": px(p.Height)}))
	if p.Title != "" {
		section.AppendChild(el(atom.H2, style(map[string]string{"color": p.TitleColor}), text(p.Title)))
	}
	if p.VideoURL != "" {
		frame := el(atom.Iframe, attr("src", p.VideoURL), attr("title", p.Title), attr("allowfullscreen", ""), style(map[string]string{
			"width":  "100%",
			"height": px(p.Height),
		}))
		if p.Autoplay {
			setAttr(frame, "allow", "autoplay")
		}
		section.AppendChild(frame)
	}
	return section
}

func renderAnnouncement(p AnnouncementBarProps) *html.Node {
	bar := el(atom.Div, attr("role", "status"), classAttr(p.FontFamily), style(map[string]string{
		"backgroundColor": p.BgColor,
		"color":           p.TextColor,
		"fontSize":        px(p.FontSize),
		"textAlign":       p.Align,
	}))
	for _, msg := range p.Messages {
		bar.AppendChild(el(atom.Span, text(msg)))
	}
	return bar
}

func renderFooter(p FooterProps) *html.Node {
	footer := el(atom.Footer, style(map[string]string{
		"backgroundColor": p.BgColor,
		"color":           p.TextColor,
	}))
	brand := el(atom.Div, classAttr("studio-footer-brand"))
	brand.AppendChild(el(atom.Strong, style(map[string]string{"color": p.AccentColor}), text(p.LogoText)))
	if p.Description != "" {
		brand.AppendChild(el(atom.P, text(p.Description)))
	}
	footer.AppendChild(brand)
	for _, group := range p.MenuGroups {
		if !group.Show {
			continue
		}
		col := el(atom.Div, classAttr("studio-footer-group"))
		col.AppendChild(el(atom.H4, text(group.Title)))
		list := el(atom.Ul)
		for _, link := range group.Links {
			list.AppendChild(el(atom.Li, el(atom.A, attr("href", link.URL), text(link.Label))))
		}
		col.AppendChild(list)
		footer.AppendChild(col)
	}
	if p.ShowSocial && len(p.SocialLinks) > 0 {
		social := el(atom.Div, classAttr("studio-social"))
		for _, link := range p.SocialLinks {
			social.AppendChild(el(atom.A, attr("href", link.URL), attr("data-platform", link.Platform), text(link.Label)))
		}
		footer.AppendChild(social)
	}
	footer.AppendChild(el(atom.Small, text(p.Copyright)))
	return footer
}

func renderCheckout(nodeID string, p CheckoutProps, active CheckoutStep) *html.Node {
	block := el(atom.Section, classAttr(p.FontFamily), attr("data-step", strconv.Itoa(int(active))), style(map[string]string{
		"backgroundColor": p.ThemeColor,
		"borderRadius":    px(p.BorderRadius),
	}))
	block.AppendChild(el(atom.H2, text(p.Title)))
	steps := el(atom.Ol, classAttr("studio-steps"))
	for _, step := range CheckoutSteps {
		item := el(atom.Li, attr("data-step", step.String()), text(step.Label()))
		if step <= active {
			addClass(item, "is-done")
			setAttr(item, "style", "color: "+p.AccentColor)
		}
		if step == active {
			addClass(item, "is-active")
		}
		steps.AppendChild(item)
	}
	block.AppendChild(steps)

	body := el(atom.Form, attr("data-slot", "checkout-"+active.String()))
	switch active {
	case StepIdentification:
		if p.ShowIdentification {
			body.AppendChild(input("email", "email", "Correo electrónico"))
			body.AppendChild(input("text", "name", "Nombre completo"))
			body.AppendChild(input("tel", "phone", "Teléfono"))
		}
	case StepShipping:
		if p.ShowShipping {
			body.AppendChild(input("text", "address", "Dirección"))
			body.AppendChild(input("text", "city", "Ciudad"))
		}
	case StepPayment:
		if p.ShowPayment {
			body.AppendChild(el(atom.Div, attr("data-slot", "payment-methods")))
		}
	}
	if active < LastCheckoutStep {
		body.AppendChild(el(atom.Button, attr("type", "button"), attr("data-action", CheckoutContinueAction), attr("data-checkout-id", nodeID), style(map[string]string{
			"backgroundColor": p.AccentColor,
			"borderRadius":    px(p.BorderRadius),
		}), text("Continuar")))
	} else {
		body.AppendChild(el(atom.Button, attr("type", "submit"), style(map[string]string{
			"backgroundColor": p.AccentColor,
			"borderRadius":    px(p.BorderRadius),
		}), text("Pagar ahora")))
	}
	block.AppendChild(body)
	if p.ShowSummary {
		block.AppendChild(el(atom.Aside, classAttr("studio-summary"), attr("data-slot", "order-summary")))
	}
	return block
}

func renderWhatsApp(p WhatsAppProps) *html.Node {
	href := "https://wa.me/" + strings.TrimPrefix(strings.ReplaceAll(p.Phone, " ", ""), "+")
	if p.Message != "" {
		href += "?text=" + url.QueryEscape(p.Message)
	}
	return el(atom.A, attr("href", href), attr("target", "_blank"), attr("rel", "noopener"), classAttr("studio-whatsapp"), style(map[string]string{
		"backgroundColor": p.BgColor,
	}), text(p.Label))
}

func renderCountdown(p CountdownProps) *html.Node {
	box := el(atom.Div, style(map[string]string{"color": p.Color}))
	box.AppendChild(el(atom.H3, text(p.Title)))
	box.AppendChild(el(atom.Time, attr("datetime", p.EndsAt), attr("data-slot", "countdown")))
	return box
}

func input(kind, name, label string) *html.Node {
	return el(atom.Label, text(label), el(atom.Input, attr("type", kind), attr("name", name)))
}

// nodePart is applied to an element under construction.
type nodePart func(*html.Node)

func el(tag atom.Atom, parts ...any) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: tag, Data: tag.String()}
	for _, part := range parts {
		switch v := part.(type) {
		case nodePart:
			v(n)
		case *html.Node:
			n.AppendChild(v)
		}
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(key, value string) nodePart {
	return func(n *html.Node) {
		if value == "" && key != "allowfullscreen" {
			return
		}
		setAttr(n, key, value)
	}
}

func classAttr(classes string) nodePart {
	return func(n *html.Node) {
		for _, class := range strings.Fields(classes) {
			if class == "is-" {
				continue
			}
			addClass(n, class)
		}
	}
}

func style(decls map[string]string) nodePart {
	return func(n *html.Node) { mergeStyle(n, decls) }
}

func setAttr(n *html.Node, key, value string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func addClass(n *html.Node, class string) {
	current := strings.Fields(getAttr(n, "class"))
	for _, existing := range current {
		if existing == class {
			return
		}
	}
	setAttr(n, "class", strings.Join(append(current, class), " "))
}

// mergeStyle appends declarations to the element style. Keys are camelCase and rendered as
// kebab-case CSS properties in sorted order; empty values and values that would close the
// declaration are skipped.
func mergeStyle(n *html.Node, decls map[string]string) {
	if len(decls) == 0 {
		return
	}
	keys := make([]string, 0, len(decls))
	for key, value := range decls {
		if !safeDeclaration(key, value) {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return
	}
	sort.Strings(keys)
	var builder strings.Builder
	if existing := strings.TrimSpace(getAttr(n, "style")); existing != "" {
		builder.WriteString(strings.TrimSuffix(existing, ";"))
		builder.WriteString("; ")
	}
	for i, key := range keys {
		if i > 0 {
			builder.WriteString("; ")
		}
		builder.WriteString(cssProperty(key))
		builder.WriteString(": ")
		builder.WriteString(decls[key])
	}
	setAttr(n, "style", builder.String())
}

// safeDeclaration reports whether key: value can be written as one inline declaration.
// Keys are plain identifiers; values may not contain ';', '{' or '}' outside a quoted string.
func safeDeclaration(key, value string) bool {
	if strings.TrimSpace(value) == "" || key == "" {
		return false
	}
	for _, r := range key {
		if !(r == '-' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	var quote rune
	escaped := false
	for _, r := range value {
		switch {
		case r == '\n' || r == '\r':
			return false
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == ';' || r == '{' || r == '}':
			return false
		}
	}
	return quote == 0 && !escaped
}

// cssURL quotes u as a CSS url() argument.
func cssURL(u string) string {
	return `url("` + cssURLEscaper.Replace(u) + `")`
}

var cssURLEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", "", "\r", "")

func cssProperty(key string) string {
	if strings.HasPrefix(key, "--") {
		return key
	}
	return strcase.ToKebab(key)
}

func appendAll(parent *html.Node, children []*html.Node) {
	for _, child := range children {
		parent.AppendChild(child)
	}
}

func px(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v) + "px"
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
