package ai

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BuildPrompt renders the text prompt sent to a provider. A non-blank custom prompt wins outright.
func BuildPrompt(in PromptInput) string {
	if in.CustomPrompt != nil {
		if custom := strings.TrimSpace(*in.CustomPrompt); custom != "" {
			return custom
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Photorealistic interior design of a %s %s", Label(in.Style), strings.ToLower(Label(in.RoomType)))
	fmt.Fprintf(&b, " measuring %s m by %s m with a %s m ceiling.",
		formatMetres(in.Dimensions.Length), formatMetres(in.Dimensions.Width), formatMetres(in.Dimensions.Height))

	if materials := nonBlank(in.Materials); len(materials) > 0 {
		fmt.Fprintf(&b, " Materials: %s.", strings.Join(materials, ", "))
	}
	if in.AmbientColor != nil && strings.TrimSpace(*in.AmbientColor) != "" {
		fmt.Fprintf(&b, " Ambient color: %s.", strings.TrimSpace(*in.AmbientColor))
	}
	b.WriteString(" Natural lighting, high detail, professional architectural photography.")
	return b.String()
}

// Label turns an enum such as LIVING_ROOM into "Living Room".
func Label(enum string) string {
	words := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(enum)), "_", " ")
	return cases.Title(language.English).String(words)
}

func formatMetres(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
