package naming

import (
	"fmt"

	"github.com/chromalens/api/colorspace"
	"github.com/chromalens/api/models"
	"github.com/lucasb-eyer/go-colorful"
)

type reference struct {
	name string
	hex  string
	rgb  models.RGB
	lab  models.LAB
}

// references is searched in order; the first entry wins a distance tie.
var references = mustParse([][2]string{
	{"Black", "#000000"},
	{"White", "#FFFFFF"},
	{"Gray", "#808080"},
	{"Dark Gray", "#404040"},
	{"Light Gray", "#C0C0C0"},
	{"Silver", "#A8A9AD"},
	{"Charcoal", "#36454F"},
	{"Red", "#FF0000"},
	{"Dark Red", "#8B0000"},
	{"Crimson", "#DC143C"},
	{"Maroon", "#800000"},
	{"Burgundy", "#800020"},
	{"Scarlet", "#FF2400"},
	{"Coral", "#FF7F50"},
	{"Salmon", "#FA8072"},
	{"Tomato", "#FF6347"},
	{"Orange", "#FFA500"},
	{"Dark Orange", "#FF8C00"},
	{"Burnt Orange", "#CC5500"},
	{"Peach", "#FFDAB9"},
	{"Amber", "#FFBF00"},
	{"Gold", "#FFD700"},
	{"Yellow", "#FFFF00"},
	{"Lemon", "#FFF44F"},
	{"Mustard", "#E1AD01"},
	{"Khaki", "#C3B091"},
	{"Beige", "#F5F5DC"},
	{"Cream", "#FFFDD0"},
	{"Ivory", "#FFFFF0"},
	{"Tan", "#D2B48C"},
	{"Sand", "#C2B280"},
	{"Brown", "#8B4513"},
	{"Chocolate", "#7B3F00"},
	{"Sienna", "#A0522D"},
	{"Rust", "#B7410E"},
	{"Olive", "#808000"},
	{"Lime", "#00FF00"},
	{"Chartreuse", "#7FFF00"},
	{"Green", "#008000"},
	{"Forest Green", "#228B22"},
	{"Dark Green", "#006400"},
	{"Sea Green", "#2E8B57"},
	{"Mint", "#98FF98"},
	{"Sage", "#9CAF88"},
	{"Emerald", "#50C878"},
	{"Jade", "#00A86B"},
	{"Teal", "#008080"},
	{"Turquoise", "#40E0D0"},
	{"Aquamarine", "#7FFFD4"},
	{"Cyan", "#00FFFF"},
	{"Sky Blue", "#87CEEB"},
	{"Light Blue", "#ADD8E6"},
	{"Steel Blue", "#4682B4"},
	{"Azure", "#007FFF"},
	{"Cornflower Blue", "#6495ED"},
	{"Royal Blue", "#4169E1"},
	{"Blue", "#0000FF"},
	{"Cobalt", "#0047AB"},
	{"Navy", "#000080"},
	{"Midnight Blue", "#191970"},
	{"Indigo", "#4B0082"},
	{"Slate Blue", "#6A5ACD"},
	{"Violet", "#8F00FF"},
	{"Purple", "#800080"},
	{"Lavender", "#E6E6FA"},
	{"Lilac", "#C8A2C8"},
	{"Plum", "#8E4585"},
	{"Magenta", "#FF00FF"},
	{"Orchid", "#DA70D6"},
	{"Pink", "#FFC0CB"},
	{"Hot Pink", "#FF69B4"},
	{"Rose", "#FF007F"},
	{"Fuchsia", "#C154C1"},
	{"Mauve", "#E0B0FF"},
})

func mustParse(entries [][2]string) []reference {
	refs := make([]reference, 0, len(entries))
	for _, e := range entries {
		c, err := colorful.Hex(e[1])
		if err != nil {
			panic(fmt.Sprintf("naming: bad reference color %s %q: %v", e[0], e[1], err))
		}
		r, g, b := c.RGB255()
		rgb := models.RGB{R: r, G: g, B: b}
		refs = append(refs, reference{name: e[0], hex: e[1], rgb: rgb, lab: colorspace.RGBToLab(rgb)})
	}
	return refs
}
