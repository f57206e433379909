package service

import (
	"slices"
	"strings"

	"github.com/Beka01247/food-ordering/internal/domain"
)

// Dishes taken off the menu. Stored items with these names are dropped.
var discontinuedDishes = []string{
	"Bánh mì pate",
	"Gỏi cuốn chay",
	"Trà đá",
	"Sữa chua nếp cẩm",
	"Lẩu thái hải sản",
}

// Legacy names written before the menu was restyled, mapped to the
// current name.
var legacyDishNames = map[string]string{
	"pho bo":        "Phở bò tái lăn",
	"phở bò":        "Phở bò tái lăn",
	"com tam":       "Cơm tấm sườn bì chả",
	"bun cha":       "Bún chả Hà Nội",
	"bún chả":       "Bún chả Hà Nội",
	"che ba mau":    "Chè ba màu",
	"ca phe sua da": "Cà phê sữa đá",
	"bo nuong":      "Bò nướng lá lốt",
}

var dishImages = map[string]string{
	"phở bò tái lăn":      "/images/menu/pho-bo-tai-lan.jpg",
	"cơm tấm sườn bì chả": "/images/menu/com-tam.jpg",
	"bún chả hà nội":      "/images/menu/bun-cha.jpg",
	"gỏi cuốn tôm thịt":   "/images/menu/goi-cuon.jpg",
	"chả giò rế":          "/images/menu/cha-gio.jpg",
	"bò nướng lá lốt":     "/images/menu/bo-la-lot.jpg",
	"sườn nướng mật ong":  "/images/menu/suon-nuong.jpg",
	"gà nướng muối ớt":    "/images/menu/ga-nuong.jpg",
	"chè ba màu":          "/images/menu/che-ba-mau.jpg",
	"bánh flan caramel":   "/images/menu/banh-flan.jpg",
	"cà phê sữa đá":       "/images/menu/ca-phe-sua-da.jpg",
	"trà đào cam sả":      "/images/menu/tra-dao.jpg",
	"nước ép dưa hấu":     "/images/menu/nuoc-ep-dua-hau.jpg",
}

// defaultMenu is stored the first time the catalog is loaded.
var defaultMenu = []domain.MenuItem{
	{ID: "std-pho-bo", Name: "Phở bò tái lăn", Description: "Phở bò Hà Nội với thịt tái lăn, nước dùng hầm xương 12 tiếng", Price: 65_000, Category: domain.CategoryMain, Image: "/images/menu/pho-bo-tai-lan.jpg"},
	{ID: "std-com-tam", Name: "Cơm tấm sườn bì chả", Description: "Cơm tấm Sài Gòn với sườn nướng, bì và chả trứng", Price: 55_000, Category: domain.CategoryMain, Image: "/images/menu/com-tam.jpg"},
	{ID: "std-bun-cha", Name: "Bún chả Hà Nội", Description: "Bún chả với chả viên, chả miếng nướng than hoa và nước mắm chua ngọt", Price: 60_000, Category: domain.CategoryMain, Image: "/images/menu/bun-cha.jpg"},
	{ID: "std-goi-cuon", Name: "Gỏi cuốn tôm thịt", Description: "Gỏi cuốn tôm, thịt ba chỉ và rau thơm, chấm tương đậu", Price: 35_000, Category: domain.CategoryAppetizer, Image: "/images/menu/goi-cuon.jpg"},
	{ID: "std-cha-gio", Name: "Chả giò rế", Description: "Chả giò rế giòn nhân tôm thịt, ăn kèm rau sống", Price: 40_000, Category: domain.CategoryAppetizer, Image: "/images/menu/cha-gio.jpg"},
	{ID: "std-che-ba-mau", Name: "Chè ba màu", Description: "Chè đậu xanh, đậu đỏ, thạch lá dứa và nước cốt dừa", Price: 25_000, Category: domain.CategoryDessert, Image: "/images/menu/che-ba-mau.jpg"},
	{ID: "std-ca-phe", Name: "Cà phê sữa đá", Description: "Cà phê phin truyền thống pha sữa đặc, uống với đá", Price: 29_000, Category: domain.CategoryDrink, Image: "/images/menu/ca-phe-sua-da.jpg"},
}

// newStandardDishes joined the menu after launch; stores that predate them
// get them appended on load.
var newStandardDishes = []domain.MenuItem{
	{ID: "std-bo-la-lot", Name: "Bò nướng lá lốt", Description: "Bò cuốn lá lốt nướng than, ăn kèm bún và mỡ hành", Price: 75_000, Category: domain.CategoryGrilled, Image: "/images/menu/bo-la-lot.jpg"},
	{ID: "std-suon-nuong", Name: "Sườn nướng mật ong", Description: "Sườn heo ướp mật ong nướng than hoa", Price: 89_000, Category: domain.CategoryGrilled, Image: "/images/menu/suon-nuong.jpg"},
	{ID: "std-ga-nuong", Name: "Gà nướng muối ớt", Description: "Nửa con gà ta nướng muối ớt, kèm rau răm và muối tiêu chanh", Price: 120_000, Category: domain.CategoryGrilled, Image: "/images/menu/ga-nuong.jpg"},
	{ID: "std-banh-flan", Name: "Bánh flan caramel", Description: "Bánh flan trứng gà với lớp caramel đắng nhẹ", Price: 20_000, Category: domain.CategoryDessert, Image: "/images/menu/banh-flan.jpg"},
	{ID: "std-tra-dao", Name: "Trà đào cam sả", Description: "Trà đào với cam tươi, sả và miếng đào ngâm", Price: 35_000, Category: domain.CategoryDrink, Image: "/images/menu/tra-dao.jpg"},
	{ID: "std-dua-hau", Name: "Nước ép dưa hấu", Description: "Nước ép dưa hấu nguyên chất, không đường", Price: 30_000, Category: domain.CategoryDrink, Image: "/images/menu/nuoc-ep-dua-hau.jpg"},
}

func DefaultMenu() []domain.MenuItem {
	return slices.Clone(defaultMenu)
}

func nameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func isPlaceholderImage(image string) bool {
	image = strings.ToLower(strings.TrimSpace(image))
	return image == "" || strings.Contains(image, "placeholder")
}

// migrateCatalog cleans up menus written by older releases. It is
// idempotent: names are compared as a set, so a second pass finds nothing
// left to change. The bool reports whether the input was modified.
func migrateCatalog(items []domain.MenuItem, newID func() string) ([]domain.MenuItem, bool) {
	dropped := make(map[string]bool, len(discontinuedDishes))
	for _, name := range discontinuedDishes {
		dropped[nameKey(name)] = true
	}

	present := make(map[string]bool, len(items))
	for _, it := range items {
		present[nameKey(it.Name)] = true
	}

	out := make([]domain.MenuItem, 0, len(items)+len(newStandardDishes))
	for _, it := range items {
		key := nameKey(it.Name)
		if dropped[key] {
			continue
		}

		if canonical, ok := legacyDishNames[key]; ok && canonical != it.Name {
			ck := nameKey(canonical)
			if present[ck] && ck != key {
				// the restyled dish is already on the menu
				continue
			}
			it.Name = canonical
			present[ck] = true
			key = ck
		}

		if isPlaceholderImage(it.Image) {
			if img, ok := dishImages[key]; ok {
				it.Image = img
			}
		}

		out = append(out, it)
	}

	names := make(map[string]bool, len(out))
	for _, it := range out {
		names[nameKey(it.Name)] = true
	}
	for _, std := range newStandardDishes {
		if !names[nameKey(std.Name)] {
			out = append(out, std)
			names[nameKey(std.Name)] = true
		}
	}

	seen := make(map[string]bool, len(out))
	for i := range out {
		if out[i].ID == "" || seen[out[i].ID] {
			out[i].ID = newID()
		}
		seen[out[i].ID] = true
	}

	return out, !slices.Equal(items, out)
}
