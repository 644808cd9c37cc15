package studio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesSixPagesWithUniqueIDs(t *testing.T) {
	for _, info := range Templates() {
		site := Generate(info.ID)
		require.Len(t, site, len(Pages), info.ID)
		seen := map[string]PageName{}
		for _, page := range Pages {
			schema, ok := site[page]
			require.True(t, ok, "template %s missing page %s", info.ID, page)
			require.NoError(t, schema.Validate())
			schema.Walk(func(_ SectionType, n Node) bool {
				if n.ID == "" {
					t.Fatalf("template %s page %s has node without id", info.ID, page)
				}
				if prev, dup := seen[n.ID]; dup {
					t.Fatalf("id %s reused on %s and %s", n.ID, prev, page)
				}
				seen[n.ID] = page
				return true
			})
		}
	}
}

func TestGenerateIsStructurallyDeterministicWithFreshIDs(t *testing.T) {
	first := Generate("t3")
	second := Generate("t3")
	for _, page := range Pages {
		assert.Equal(t, stripPage(first[page]), stripPage(second[page]), page)
		a, b := flatten(first[page]), flatten(second[page])
		for id := range a {
			if _, shared := b[id]; shared {
				t.Fatalf("page %s reused id %s across generations", page, id)
			}
		}
	}
}

func TestGenerateUnknownTemplateFallsBackToDefault(t *testing.T) {
	unknown := Generate("does-not-exist")
	fallback := Generate(DefaultTemplateID)
	for _, page := range Pages {
		assert.Equal(t, stripPage(fallback[page]), stripPage(unknown[page]))
	}
}

func TestGenerateVideoTemplateUsesAccent(t *testing.T) {
	gen := NewGenerator(sequenceIDs("t2"))
	site := gen.Generate("t2")
	const accent = "#00f2ff"

	home := site[PageHome]
	video, ok := findType(home.Body.Elements, TypeVideo)
	require.True(t, ok, "t2 home should carry a video block")
	assert.NotEmpty(t, video.Props.(VideoProps).VideoURL)
	_, hasCategories := findType(home.Body.Elements, TypeCategoriesGrid)
	assert.False(t, hasCategories)

	checked := 0
	for _, page := range Pages {
		site[page].Walk(func(_ SectionType, n Node) bool {
			switch p := n.Props.(type) {
			case NavbarProps:
				assert.Equal(t, accent, p.LogoColor)
				checked++
			case FooterProps:
				assert.Equal(t, accent, p.AccentColor)
				checked++
			case HeroBannerProps:
				assert.Equal(t, accent, p.PrimaryBtnBgColor)
				checked++
			case ProductGridProps:
				assert.Equal(t, accent, p.PriceColor)
				checked++
			case ProductMasterViewProps:
				assert.Equal(t, accent, p.PriceColor)
				checked++
			case CardsProps:
				for _, card := range p.Cards {
					assert.Equal(t, accent, card.IconColor)
				}
				checked++
			case CheckoutProps:
				assert.Equal(t, accent, p.AccentColor)
				checked++
			}
			return true
		})
	}
	assert.Greater(t, checked, 10)
}

func TestGenerateNonVideoTemplateKeepsCategories(t *testing.T) {
	site := Generate("t1")
	_, ok := findType(site[PageHome].Body.Elements, TypeCategoriesGrid)
	assert.True(t, ok)
	_, ok = findType(site[PageHome].Body.Elements, TypeVideo)
	assert.False(t, ok)
}

func TestGenerateCheckoutPage(t *testing.T) {
	site := Generate("t5")
	checkout := site[PageCheckout]
	assert.Empty(t, checkout.Footer.Elements)
	require.Len(t, checkout.Body.Elements, 1)
	node := checkout.Body.Elements[0]
	assert.Equal(t, TypeCheckout, node.Type)
	props := node.Props.(CheckoutProps)
	assert.Equal(t, "Finalizar Compra", props.Title)
	assert.Equal(t, 32, props.BorderRadius)
	assert.Equal(t, "#ef4444", props.AccentColor)
	assert.Equal(t, "#f8fafc", checkout.Body.Styles["backgroundColor"])
}

func TestGenerateWorkshopHero(t *testing.T) {
	hero, ok := findType(Generate("t4")[PageHome].Body.Elements, TypeHeroBanner)
	require.True(t, ok)
	assert.Equal(t, workshopHeroImage, hero.Props.(HeroBannerProps).ImageURL)

	hero, ok = findType(Generate("t1")[PageHome].Body.Elements, TypeHeroBanner)
	require.True(t, ok)
	assert.Equal(t, defaultHeroImage, hero.Props.(HeroBannerProps).ImageURL)
}

func TestGenerateAboutPageNestsStoryInSection(t *testing.T) {
	about := Generate("t6")[PageAbout]
	section, ok := findType(about.Body.Elements, TypeSection)
	require.True(t, ok)
	require.Len(t, section.Children, 2)
	assert.Equal(t, TypeText, section.Children[0].Type)
	cards := section.Children[1].Props.(CardsProps)
	for _, card := range cards.Cards {
		assert.NotEmpty(t, card.ID)
	}
}

func TestThemeForDarkFlagsAndCSSVariables(t *testing.T) {
	for id, dark := range map[string]bool{"t1": false, "t2": true, "t3": false, "t4": true, "t5": false, "t6": true} {
		assert.Equal(t, dark, ThemeFor(id).Dark, id)
	}
	vars := ThemeFor("t2").CSSVariables()
	assert.Equal(t, "#00f2ff", vars["--studio-accent"])
	assert.Contains(t, ThemeFor("t2").CSSVariablesInline(), "--studio-accent: #00f2ff;")
}
