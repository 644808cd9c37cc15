package studio

import (
	"encoding/json"
	"reflect"
)

// Props is the typed property record carried by a descriptor. Each component type
// has its own implementation.
type Props interface {
	Kind() ComponentType
}

// Link is a label/url pair used by menus and footers.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// SectionProps configures a flex container.
type SectionProps struct {
	Direction string `json:"direction"`
	Gap       int    `json:"gap"`
	Padding   int    `json:"padding"`
	Align     string `json:"align"`
	BgColor   string `json:"bgColor"`
}

// GridProps configures a column grid container.
type GridProps struct {
	Columns int `json:"columns"`
	Gap     int `json:"gap"`
}

// TextProps configures a text block.
type TextProps struct {
	Content    string `json:"content"`
	FontSize   int    `json:"fontSize"`
	Color      string `json:"color"`
	FontFamily string `json:"fontFamily"`
	Align      string `json:"align"`
	Variant    string `json:"variant"`
}

// ButtonProps configures a call to action.
type ButtonProps struct {
	Text         string `json:"text"`
	URL          string `json:"url"`
	Variant      string `json:"variant"`
	BgColor      string `json:"bgColor"`
	TextColor    string `json:"textColor"`
	BorderRadius int    `json:"borderRadius"`
	Align        string `json:"align"`
	Font         string `json:"font"`
	Size         int    `json:"size"`
}

// ImageProps configures an image block.
type ImageProps struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Radius int    `json:"radius"`
}

// NavbarProps configures the store navigation bar.
type NavbarProps struct {
	LogoText   string `json:"logoText"`
	LogoColor  string `json:"logoColor"`
	BgColor    string `json:"bgColor"`
	MenuColor  string `json:"menuColor"`
	MenuFont   string `json:"menuFont"`
	NavHeight  int    `json:"navHeight"`
	Align      string `json:"align"`
	Variant    string `json:"navVariant"`
	ShowCart   bool   `json:"showCart"`
	ShowUser   bool   `json:"showUser"`
	ShowSearch bool   `json:"showSearch"`
	MenuItems  []Link `json:"menuItems"`
}

// HeroBannerProps configures a full-width banner.
type HeroBannerProps struct {
	Title             string `json:"title"`
	Subtitle          string `json:"subtitle"`
	TitleColor        string `json:"titleColor"`
	TitleFont         string `json:"titleFont"`
	TitleSize         int    `json:"titleSize"`
	BgType            string `json:"bgType"`
	BgColor           string `json:"bgColor"`
	ImageURL          string `json:"imageUrl"`
	Height            int    `json:"height"`
	OverlayOpacity    int    `json:"overlayOpacity"`
	Align             string `json:"align"`
	Variant           string `json:"heroVariant"`
	PrimaryBtnText    string `json:"primaryBtnText"`
	PrimaryBtnURL     string `json:"primaryBtnUrl"`
	PrimaryBtnBgColor string `json:"primaryBtnBgColor"`
	PrimaryBtnVariant string `json:"primaryBtnVariant"`
}

// ProductGridProps configures a product listing.
type ProductGridProps struct {
	Title            string `json:"title"`
	ItemsCount       int    `json:"itemsCount"`
	Columns          int    `json:"columns"`
	PriceColor       string `json:"priceColor"`
	PriceFont        string `json:"priceFont"`
	CardBorderRadius int    `json:"cardBorderRadius"`
	CardStyle        string `json:"cardStyle"`
	ShowFilters      bool   `json:"showFilters"`
	FilterStyle      string `json:"filterStyle"`
	ShowPrice        bool   `json:"showPrice"`
	ShowAddToCart    bool   `json:"showAddToCart"`
	AddToCartText    string `json:"addToCartText"`
	Category         string `json:"selectedCategory"`
}

// Category is one tile of a categories grid.
type Category struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	URL      string `json:"url"`
}

// CategoriesGridProps configures the featured categories block.
type CategoriesGridProps struct {
	Title         string     `json:"title"`
	CardStyle     string     `json:"cardStyle"`
	CatTitleFont  string     `json:"catTitleFont"`
	CatTitleColor string     `json:"catTitleColor"`
	Categories    []Category `json:"categories"`
}

// ProductMasterViewProps configures the product detail block.
type ProductMasterViewProps struct {
	TitleColor    string `json:"titleColor"`
	TitleFont     string `json:"titleFont"`
	PriceColor    string `json:"priceColor"`
	PriceFont     string `json:"priceFont"`
	MainImageSize int    `json:"mainImageSize"`
	GalleryEffect string `json:"galleryEffect"`
}

// Card is one entry of a cards block.
type Card struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IconColor   string `json:"iconColor"`
	BgColor     string `json:"bgColor"`
}

// CardsProps configures a row of feature cards.
type CardsProps struct {
	Columns      int    `json:"columns"`
	Gap          int    `json:"gap"`
	BorderRadius int    `json:"borderRadius"`
	Cards        []Card `json:"cards"`
}

// VideoProps configures an embedded promotional video.
type VideoProps struct {
	Title      string `json:"title"`
	VideoURL   string `json:"videoExternalUrl"`
	TitleColor string `json:"titleColor"`
	Height     int    `json:"height"`
	Autoplay   bool   `json:"autoplay"`
}

// AnnouncementBarProps configures the rotating promo strip.
type AnnouncementBarProps struct {
	Messages   []string `json:"messages"`
	BgColor    string   `json:"bgColor"`
	TextColor  string   `json:"textColor"`
	FontSize   int      `json:"fontSize"`
	Align      string   `json:"align"`
	FontFamily string   `json:"fontFamily"`
}

// MenuGroup is a titled list of footer links.
type MenuGroup struct {
	Title string `json:"title"`
	Show  bool   `json:"show"`
	Links []Link `json:"links"`
}

// SocialLink points at a social profile.
type SocialLink struct {
	Label    string `json:"label"`
	URL      string `json:"url"`
	Platform string `json:"platform"`
}

// FooterProps configures the premium footer.
type FooterProps struct {
	LogoText    string       `json:"logoText"`
	Description string       `json:"description"`
	BgColor     string       `json:"bgColor"`
	TextColor   string       `json:"textColor"`
	AccentColor string       `json:"accentColor"`
	Copyright   string       `json:"copyright"`
	ShowSocial  bool         `json:"showSocial"`
	MenuGroups  []MenuGroup  `json:"menuGroups"`
	SocialLinks []SocialLink `json:"socialLinks"`
}

// CheckoutProps configures the checkout block.
type CheckoutProps struct {
	Title              string `json:"title"`
	ThemeColor         string `json:"themeColor"`
	AccentColor        string `json:"accentColor"`
	FontFamily         string `json:"fontFamily"`
	BorderRadius       int    `json:"borderRadius"`
	ShowIdentification bool   `json:"showIdentification"`
	ShowShipping       bool   `json:"showShipping"`
	ShowPayment        bool   `json:"showPayment"`
	ShowSummary        bool   `json:"showSummary"`
}

// WhatsAppProps configures the floating chat button.
type WhatsAppProps struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Label   string `json:"label"`
	BgColor string `json:"bgColor"`
}

// CountdownProps configures a promotion countdown.
type CountdownProps struct {
	Title  string `json:"title"`
	EndsAt string `json:"endsAt"`
	Color  string `json:"color"`
}

// UnknownProps keeps the raw props of a type this build does not recognize.
type UnknownProps struct {
	Type ComponentType
	Raw  map[string]any
}

func (SectionProps) Kind() ComponentType           { return TypeSection }
func (GridProps) Kind() ComponentType              { return TypeGrid }
func (TextProps) Kind() ComponentType              { return TypeText }
func (ButtonProps) Kind() ComponentType            { return TypeButton }
func (ImageProps) Kind() ComponentType             { return TypeImage }
func (NavbarProps) Kind() ComponentType            { return TypeNavbar }
func (HeroBannerProps) Kind() ComponentType        { return TypeHeroBanner }
func (ProductGridProps) Kind() ComponentType       { return TypeProductGrid }
func (CategoriesGridProps) Kind() ComponentType    { return TypeCategoriesGrid }
func (ProductMasterViewProps) Kind() ComponentType { return TypeProductMasterView }
func (CardsProps) Kind() ComponentType             { return TypeCards }
func (VideoProps) Kind() ComponentType             { return TypeVideo }
func (AnnouncementBarProps) Kind() ComponentType   { return TypeAnnouncementBar }
func (FooterProps) Kind() ComponentType            { return TypeFooter }
func (CheckoutProps) Kind() ComponentType          { return TypeCheckout }
func (WhatsAppProps) Kind() ComponentType          { return TypeWhatsApp }
func (CountdownProps) Kind() ComponentType         { return TypeCountdown }
func (p UnknownProps) Kind() ComponentType         { return p.Type }

// MarshalJSON emits the raw props unchanged.
func (p UnknownProps) MarshalJSON() ([]byte, error) {
	if p.Raw == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.Raw)
}

// IsContainer reports whether nodes of the type render their children.
func IsContainer(t ComponentType) bool {
	return t == TypeSection || t == TypeGrid
}

// KnownType reports whether the build has a rendering branch for the type.
func KnownType(t ComponentType) bool {
	_, ok := DefaultProps(t)
	return ok
}

// DecodeProps decodes raw props for a type on top of the type defaults so missing keys
// keep their default values. Unknown types decode into UnknownProps.
func DecodeProps(t ComponentType, raw json.RawMessage) (Props, error) {
	base, ok := DefaultProps(t)
	if !ok {
		unknown := UnknownProps{Type: t, Raw: map[string]any{}}
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &unknown.Raw); err != nil {
				return nil, err
			}
		}
		return unknown, nil
	}
	if len(raw) == 0 || string(raw) == "null" {
		return base, nil
	}
	ptr := reflect.New(reflect.TypeOf(base))
	ptr.Elem().Set(reflect.ValueOf(base))
	if err := resetPresentSlices(ptr.Elem(), raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface().(Props), nil
}

// PropsMap flattens props into their wire keys.
func PropsMap(p Props) (map[string]any, error) {
	if p == nil {
		return map[string]any{}, nil
	}
	if unknown, ok := p.(UnknownProps); ok {
		return cloneMap(unknown.Raw), nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MergeProps shallow-merges patch keys over props and decodes the result back into the
// same variant. Keys the variant does not declare are dropped.
func MergeProps(p Props, patch map[string]any) (Props, error) {
	if len(patch) == 0 {
		return p, nil
	}
	base, err := PropsMap(p)
	if err != nil {
		return nil, err
	}
	for key, value := range patch {
		base[key] = value
	}
	raw, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	return DecodeProps(p.Kind(), raw)
}

func cloneProps(p Props) Props {
	if p == nil {
		return nil
	}
	if unknown, ok := p.(UnknownProps); ok {
		return UnknownProps{Type: unknown.Type, Raw: cloneMap(unknown.Raw)}
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return p
	}
	out, err := DecodeProps(p.Kind(), raw)
	if err != nil {
		return p
	}
	return out
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
