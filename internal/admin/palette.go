package admin

import (
	"slices"

	"github.com/terra-clan/learnpath/internal/catalog"
)

// IconPalette lists the icons an editor may pick
var IconPalette = []string{
	"🌐", "🗄️", "📊", "📱", "☁️", "🔒", "🎨", "🤖", "🎮", "⚛️",
	"🐍", "☕", "🔧", "📚", "💻", "🚀", "⚡", "🎯", "🔥", "💎",
}

// ColorPalette lists the card gradients an editor may pick
var ColorPalette = []string{
	"from-blue-500 to-cyan-500",
	"from-green-500 to-emerald-500",
	"from-purple-500 to-pink-500",
	"from-orange-500 to-red-500",
	"from-teal-500 to-blue-500",
	"from-indigo-500 to-purple-500",
	"from-pink-500 to-rose-500",
	"from-yellow-500 to-orange-500",
	"from-cyan-500 to-blue-500",
	"from-violet-500 to-purple-500",
}

// ValidIcon reports whether icon may be assigned. The default icon is
// always accepted.
func ValidIcon(icon string) bool {
	return icon == catalog.DefaultIcon || slices.Contains(IconPalette, icon)
}

// ValidColor reports whether color may be assigned. The default gradient is
// accepted even though the picker does not offer it.
func ValidColor(color string) bool {
	return color == catalog.DefaultColor || slices.Contains(ColorPalette, color)
}
