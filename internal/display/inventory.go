package display

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Lifor121/SketchBlade-sub002/internal/game"
	"github.com/Masterminds/sprig/v3"
)

const inventoryTemplate = `{{ .Name }} ({{ .Gold }} gold)
{{- range .Sections }}
{{ .Title }}: {{ if .Slots }}{{ .Slots | join ", " }}{{ else }}nothing{{ end }}
{{- end }}
{{- if .Stats }}
{{ .Stats }}
{{- end }}
`

var tmpl = template.Must(template.New("inventory").Funcs(sprig.TxtFuncMap()).Parse(inventoryTemplate))

type section struct {
	Title string
	Slots []string
}

type view struct {
	Name     string
	Gold     int
	Sections []section
	Stats    string
}

// RenderInventory describes every occupied slot as wrapped plain text.
// ch may be nil when there is no equipment to show.
func RenderInventory(inv *game.Inventory, ch *game.Character) (string, error) {
	if inv == nil {
		return "", game.ErrNoInventory
	}

	v := view{
		Name: "Inventory",
		Gold: inv.Gold,
		Sections: []section{
			{Title: "Backpack", Slots: describeCollection(inv.Main)},
			{Title: "Quick access", Slots: describeCollection(inv.Quick)},
			{Title: "Crafting grid", Slots: describeCollection(inv.Craft)},
			{Title: "Trash", Slots: describeCollection(inv.Trash)},
		},
	}

	if ch != nil {
		v.Name = Capitalize(ch.Name)
		var worn []string
		for _, slot := range game.EquipSlots() {
			if it := ch.Equipped(slot); it != nil {
				worn = append(worn, fmt.Sprintf("%s: %s", slot, describeItem(it)))
			}
		}
		v.Sections = append(v.Sections, section{Title: "Equipped", Slots: worn})

		st := ch.Stats()
		if st.Damage != 0 || st.Defense != 0 {
			v.Stats = fmt.Sprintf("Damage %d, defense %d.", st.Damage, st.Defense)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, l := range lines {
		lines[i] = Wrap(l)
	}
	return strings.Join(lines, "\n"), nil
}

func describeCollection(c *game.Collection) []string {
	var out []string
	for i := 0; i < c.Capacity(); i++ {
		if it := c.GetAt(i); it != nil {
			out = append(out, fmt.Sprintf("%d. %s", i+1, describeItem(it)))
		}
	}
	return out
}

func describeItem(it *game.Item) string {
	name := Title(it.Name)
	if it.Rarity > game.RarityCommon {
		name = fmt.Sprintf("%s [%s]", name, it.Rarity)
	}
	if it.StackSize > 1 {
		name = fmt.Sprintf("%s x%d", name, it.StackSize)
	}
	return name
}
