package web

// Labels holds the fixed texts of the pages.
type Labels struct {
	Lang          string
	Logo          string
	LatestEpisode string
	AllEpisodes   string
	Podcast       string
	Members       string
	Date          string
	Duration      string
	Play          string
	Pause         string
	Back          string
	NowPlaying    string
	SelectEpisode string
	Shuffle       string
	Previous      string
	Next          string
	Loop          string
	NotFound      string
	Unavailable   string
}

var labels = map[string]Labels{
	"pt_BR": {
		Lang:          "pt-BR",
		Logo:          "Podcastr",
		LatestEpisode: "Últimos lançamentos",
		AllEpisodes:   "Todos episódios",
		Podcast:       "Podcast",
		Members:       "Integrantes",
		Date:          "Data",
		Duration:      "Duração",
		Play:          "Tocar episódio",
		Pause:         "Pausar episódio",
		Back:          "Voltar",
		NowPlaying:    "Tocando agora",
		SelectEpisode: "Selecione um podcast para ouvir",
		Shuffle:       "Embaralhar",
		Previous:      "Tocar anterior",
		Next:          "Tocar próxima",
		Loop:          "Repetir",
		NotFound:      "Episódio não encontrado",
		Unavailable:   "Não foi possível carregar os episódios",
	},
	"en": {
		Lang:          "en",
		Logo:          "Podcastr",
		LatestEpisode: "Latest episodes",
		AllEpisodes:   "All episodes",
		Podcast:       "Podcast",
		Members:       "Members",
		Date:          "Date",
		Duration:      "Duration",
		Play:          "Play episode",
		Pause:         "Pause episode",
		Back:          "Back",
		NowPlaying:    "Now playing",
		SelectEpisode: "Select a podcast to listen to",
		Shuffle:       "Shuffle",
		Previous:      "Play previous",
		Next:          "Play next",
		Loop:          "Repeat",
		NotFound:      "Episode not found",
		Unavailable:   "Could not load the episodes",
	},
}

// LabelsFor returns the texts for a locale, falling back to pt_BR.
func LabelsFor(locale string) Labels {
	if l, ok := labels[locale]; ok {
		return l
	}
	return labels["pt_BR"]
}
