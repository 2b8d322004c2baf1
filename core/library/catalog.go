package library

import "TamilFM/model"

// Catalog is the built-in Tamil song list, used as the playlist when the
// backend library is empty. Locators are app-relative asset paths.
func Catalog() []model.Track {
	return []model.Track{
		{ID: "1", Title: "Kannalane", Artist: "A.R. Rahman", Album: "Bombay", AudioURL: "/music/kannalane.mp3", CoverURL: "/images/kannalane.jpg"},
		{ID: "2", Title: "Munbe Vaa", Artist: "A.R. Rahman", Album: "Sillunu Oru Kaadhal", AudioURL: "/music/munbe-vaa.mp3", CoverURL: "/images/munbe-vaa.jpg"},
		{ID: "3", Title: "Kadhal Rojave", Artist: "A.R. Rahman", Album: "Roja", AudioURL: "/music/kadhal-rojave.mp3", CoverURL: "/images/kadhal-rojave.jpg"},
		{ID: "4", Title: "Vennilave", Artist: "Ilaiyaraaja", Album: "Minsara Kanavu", AudioURL: "/music/vennilave.mp3", CoverURL: "/images/vennilave.jpg"},
		{ID: "5", Title: "Uyire", Artist: "A.R. Rahman", Album: "Bombay", AudioURL: "/music/uyire.mp3", CoverURL: "/images/uyire.jpg"},
		{ID: "6", Title: "Why This Kolaveri Di", Artist: "Anirudh Ravichander", Album: "3", AudioURL: "/music/why-this-kolaveri-di.mp3", CoverURL: "/images/why-this-kolaveri-di.jpg"},
		{ID: "7", Title: "Thalli Pogathey", Artist: "A.R. Rahman", Album: "Achcham Yenbadhu Madamaiyada", AudioURL: "/music/thalli-pogathey.mp3", CoverURL: "/images/thalli-pogathey.jpg"},
		{ID: "8", Title: "Rowdy Baby", Artist: "Yuvan Shankar Raja", Album: "Maari 2", AudioURL: "/music/rowdy-baby.mp3", CoverURL: "/images/rowdy-baby.jpg"},
		{ID: "9", Title: "Nenjukkul Peidhidum", Artist: "Yuvan Shankar Raja", Album: "Vaaranam Aayiram", AudioURL: "/music/nenjukkul-peidhidum.mp3", CoverURL: "/images/nenjukkul-peidhidum.jpg"},
		{ID: "10", Title: "Vaseegara", Artist: "Harris Jayaraj", Album: "Minnale", AudioURL: "/music/vaseegara.mp3", CoverURL: "/images/vaseegara.jpg"},
	}
}
