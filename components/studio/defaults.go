package studio

import (
	"encoding/json"
	"reflect"
	"strings"
)

const (
	defaultHeroImage     = "https://images.unsplash.com/photo-1441986300917-64674bd600d8?q=80&w=2000"
	defaultAccent        = "#2563eb"
	defaultCheckoutTitle = "Finalizar Compra"
)

// NewSectionProps returns section defaults.
func NewSectionProps() SectionProps {
	return SectionProps{Direction: "column", Gap: 24, Padding: 40, Align: "center"}
}

// NewGridProps returns grid defaults.
func NewGridProps() GridProps {
	return GridProps{Columns: 3, Gap: 24}
}

// NewTextProps returns text defaults.
func NewTextProps() TextProps {
	return TextProps{
		Content:    "Escribe aquí tu mensaje...",
		FontSize:   24,
		Color:      "#1f2937",
		FontFamily: "font-sans",
		Align:      "center",
		Variant:    "solid",
	}
}

// NewButtonProps returns button defaults.
func NewButtonProps() ButtonProps {
	return ButtonProps{
		Text:         "Haz clic",
		URL:          "/",
		Variant:      "solid",
		BgColor:      defaultAccent,
		TextColor:    "#ffffff",
		BorderRadius: 12,
		Align:        "center",
		Font:         "font-black",
		Size:         14,
	}
}

// NewImageProps returns image defaults.
func NewImageProps() ImageProps {
	return ImageProps{Src: defaultHeroImage, Alt: "Imagen"}
}

// NewNavbarProps returns navbar defaults.
func NewNavbarProps() NavbarProps {
	return NavbarProps{
		LogoText:   "BAYUP SHOP",
		LogoColor:  defaultAccent,
		BgColor:    "#ffffff",
		MenuColor:  "#4b5563",
		MenuFont:   "font-black",
		NavHeight:  80,
		Align:      "center",
		Variant:    "solid",
		ShowCart:   true,
		ShowUser:   true,
		ShowSearch: true,
		MenuItems: []Link{
			{Label: "Inicio", URL: "/"},
			{Label: "Tienda", URL: "/tienda"},
			{Label: "Sobre Nosotros", URL: "/nosotros"},
		},
	}
}

// NewHeroBannerProps returns hero banner defaults.
func NewHeroBannerProps() HeroBannerProps {
	return HeroBannerProps{
		Title:             "Nuevo Banner",
		Subtitle:          "Añade una descripción impactante aquí.",
		TitleColor:        "#ffffff",
		TitleFont:         "font-black",
		TitleSize:         48,
		BgType:            "image",
		BgColor:           "#111827",
		ImageURL:          defaultHeroImage,
		Height:            400,
		OverlayOpacity:    40,
		Align:             "center",
		PrimaryBtnText:    "Acción Principal",
		PrimaryBtnURL:     "/productos",
		PrimaryBtnBgColor: defaultAccent,
		PrimaryBtnVariant: "solid",
	}
}

// NewProductGridProps returns product grid defaults.
func NewProductGridProps() ProductGridProps {
	return ProductGridProps{
		Title:            "Nuestros Productos",
		ItemsCount:       4,
		Columns:          4,
		PriceColor:       defaultAccent,
		PriceFont:        "font-black",
		CardBorderRadius: 20,
		CardStyle:        "premium",
		FilterStyle:      "list",
		ShowPrice:        true,
		ShowAddToCart:    true,
		AddToCartText:    "Añadir al Carrito",
		Category:         "all",
	}
}

// NewCategoriesGridProps returns categories grid defaults.
func NewCategoriesGridProps() CategoriesGridProps {
	return CategoriesGridProps{
		Title:         "Categorías Destacadas",
		CardStyle:     "premium",
		CatTitleFont:  "font-black",
		CatTitleColor: "#ffffff",
		Categories: []Category{
			{Name: "Novedades", URL: "/colecciones"},
			{Name: "Más Vendidos", URL: "/productos"},
			{Name: "Ofertas", URL: "/productos"},
		},
	}
}

// NewProductMasterViewProps returns product detail defaults.
func NewProductMasterViewProps() ProductMasterViewProps {
	return ProductMasterViewProps{
		TitleColor:    "#111827",
		TitleFont:     "font-black",
		PriceColor:    defaultAccent,
		PriceFont:     "font-black",
		MainImageSize: 100,
		GalleryEffect: "zoom-swap",
	}
}

// NewCardsProps returns cards defaults. Card ids are left empty; callers that place the
// node in a tree assign them.
func NewCardsProps() CardsProps {
	return CardsProps{
		Columns:      3,
		Gap:          24,
		BorderRadius: 24,
		Cards: []Card{
			{Title: "Calidad Premium", Description: "Utilizamos los mejores materiales del mercado para garantizar durabilidad extrema.", Icon: "Star", IconColor: defaultAccent, BgColor: "#ffffff"},
			{Title: "Envío Rápido", Description: "Recibe tus pedidos en la puerta de tu casa en menos de 24 horas garantizadas.", Icon: "Wind", IconColor: "#059669", BgColor: "#ffffff"},
			{Title: "Soporte 24/7", Description: "Nuestro equipo de expertos está disponible en todo momento para ayudarte.", Icon: "Zap", IconColor: "#7c3aed", BgColor: "#ffffff"},
		},
	}
}

// NewVideoProps returns video defaults.
func NewVideoProps() VideoProps {
	return VideoProps{Title: "Video Promocional", TitleColor: "#ffffff", Height: 400}
}

// NewAnnouncementBarProps returns announcement bar defaults.
func NewAnnouncementBarProps() AnnouncementBarProps {
	return AnnouncementBarProps{
		Messages:   []string{"¡PROMO DISPONIBLE!"},
		BgColor:    "#004d4d",
		TextColor:  "#ffffff",
		FontSize:   11,
		Align:      "center",
		FontFamily: "font-black",
	}
}

// NewFooterProps returns footer defaults.
func NewFooterProps() FooterProps {
	return FooterProps{
		LogoText:    "BAYUP SHOP",
		Description: "Transformando la forma en que el mundo compra online con tecnología de vanguardia.",
		BgColor:     "#000000",
		TextColor:   "#ffffff",
		AccentColor: "#00f2ff",
		Copyright:   "© Todos los derechos reservados.",
		ShowSocial:  true,
		MenuGroups: []MenuGroup{
			{Title: "Tienda", Show: true, Links: []Link{{Label: "Catálogo", URL: "/productos"}, {Label: "Colecciones", URL: "/colecciones"}}},
			{Title: "Ayuda", Show: true, Links: []Link{{Label: "Términos", URL: "/legal"}, {Label: "Nosotros", URL: "/nosotros"}}},
		},
		SocialLinks: []SocialLink{
			{Label: "Instagram", URL: "https://instagram.com", Platform: "instagram"},
			{Label: "Facebook", URL: "https://facebook.com", Platform: "facebook"},
		},
	}
}

// NewCheckoutProps returns checkout defaults.
func NewCheckoutProps() CheckoutProps {
	return CheckoutProps{
		Title:              defaultCheckoutTitle,
		ThemeColor:         "#000000",
		AccentColor:        "#00f2ff",
		FontFamily:         "font-black",
		BorderRadius:       32,
		ShowIdentification: true,
		ShowShipping:       true,
		ShowPayment:        true,
		ShowSummary:        true,
	}
}

// NewWhatsAppProps returns floating chat defaults.
func NewWhatsAppProps() WhatsAppProps {
	return WhatsAppProps{Message: "Hola, quiero más información", Label: "Escríbenos", BgColor: "#25d366"}
}

// NewCountdownProps returns countdown defaults.
func NewCountdownProps() CountdownProps {
	return CountdownProps{Title: "La oferta termina en", Color: "#ef4444"}
}

// DefaultProps returns a fresh default record for the type. The second result is false for
// types the build does not recognize.
func DefaultProps(t ComponentType) (Props, bool) {
	switch t {
	case TypeSection:
		return NewSectionProps(), true
	case TypeGrid:
		return NewGridProps(), true
	case TypeText:
		return NewTextProps(), true
	case TypeButton:
		return NewButtonProps(), true
	case TypeImage:
		return NewImageProps(), true
	case TypeNavbar:
		return NewNavbarProps(), true
	case TypeHeroBanner:
		return NewHeroBannerProps(), true
	case TypeProductGrid:
		return NewProductGridProps(), true
	case TypeCategoriesGrid:
		return NewCategoriesGridProps(), true
	case TypeProductMasterView:
		return NewProductMasterViewProps(), true
	case TypeCards:
		return NewCardsProps(), true
	case TypeVideo:
		return NewVideoProps(), true
	case TypeAnnouncementBar:
		return NewAnnouncementBarProps(), true
	case TypeFooter:
		return NewFooterProps(), true
	case TypeCheckout:
		return NewCheckoutProps(), true
	case TypeWhatsApp:
		return NewWhatsAppProps(), true
	case TypeCountdown:
		return NewCountdownProps(), true
	}
	return nil, false
}

// ComponentTypes lists every recognized type in toolbox order.
func ComponentTypes() []ComponentType {
	return []ComponentType{
		TypeSection, TypeGrid, TypeText, TypeButton, TypeImage,
		TypeNavbar, TypeAnnouncementBar, TypeHeroBanner, TypeCategoriesGrid,
		TypeProductGrid, TypeProductMasterView, TypeCards, TypeVideo,
		TypeCountdown, TypeWhatsApp, TypeCheckout, TypeFooter,
	}
}

// assignCardIDs gives every card without an id a fresh one.
func assignCardIDs(p Props, ids IDGenerator) Props {
	cards, ok := p.(CardsProps)
	if !ok {
		return p
	}
	if len(cards.Cards) > 0 {
		out := make([]Card, len(cards.Cards))
		copy(out, cards.Cards)
		for i := range out {
			if out[i].ID == "" {
				out[i].ID = ids.NewID()
			}
		}
		cards.Cards = out
	}
	return cards
}

// resetPresentSlices clears slice fields whose key appears in raw so decoding replaces the
// default elements instead of merging into them.
func resetPresentSlices(target reflect.Value, raw json.RawMessage) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return err
	}
	typ := target.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.Type.Kind() != reflect.Slice {
			continue
		}
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "" {
			name = field.Name
		}
		if _, ok := keys[name]; ok {
			target.Field(i).Set(reflect.Zero(field.Type))
		}
	}
	return nil
}
