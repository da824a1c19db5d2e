// Package relevance scores feed entries against weighted Bulgarian term sets.
package relevance

import (
	"strings"

	"NewsHerald/internal/domain"
	"NewsHerald/internal/textutil"
)

// Weights per term set. A title match supersedes a summary match for the same
// term; the title signal is more reliable than the summary signal, hence the
// 2x gap.
const (
	priorityTitleWeight   = 8
	prioritySummaryWeight = 4
	standardTitleWeight   = 5
	standardSummaryWeight = 2
	hotTitleWeight        = 3
	hotSummaryWeight      = 1
)

// priorityTerms get the strongest boost.
var priorityTerms = []string{
	"протест", "арест", "корупция", "трагедия", "катастрофа", "криза", "цени",
	"храна", "поскъпване", "бий", "бой", "полиция", "мвр", "болница",
}

// standardTerms is the broad relevance list: parties, politicians,
// institutions, economy, infrastructure, society, global topics.
var standardTerms = []string{
	"Граждани за европейско развитие на България", "ГЕРБ", "Продължаваме промяната", "ПП",
	"Демократична България", "ДБ", "ПП-ДБ", "Българска социалистическа партия", "БСП",
	"Движение за права и свободи", "ДПС", "Има такъв народ", "ИТН", "Възраждане",
	"Български възход", "Левицата", "Атака", "ВМРО", "НФСБ", "Да, България", "ДСБ",
	"ЗНС", "ОЗ", "РЗБ", "КБ", "предсрочни избори", "парламентарни избори", "местни избори",
	"президентски избори", "коалиционно правителство", "служебен кабинет", "оставка",
	"вот на недоверие", "политическа криза", "нестабилност", "изборна умора",
	"Делян Пеевски", "Бойко Борисов", "Кирил Петков", "Асен Василев", "Христо Иванов",
	"Корнелия Нинова", "Слави Трифонов", "Костадин Костадинов", "Румен Радев",
	"санкции Магнитски", "корупция", "антикорупция", "КПКОНПИ", "съдебна реформа",
	"прокуратура", "главен прокурор", "ВСС", "олигархия", "задкулисие", "купуване на гласове",
	"изборни измами", "масови протести", "гражданско недоволство", "Шенген", "сухопътен Шенген",
	"мигрантски натиск", "нелегална миграция", "бежанци", "Европейски съюз", "ЕС",
	"Европейска комисия", "еврофондове", "План за възстановяване и устойчивост", "ПВУ",
	"еврозона", "въвеждане на еврото", "БНБ", "инфлация", "ръст на цените", "поскъпване",
	"държавен бюджет", "бюджетен дефицит", "данъчни промени", "ДДС", "минимална работна заплата",
	"пенсии", "социално напрежение", "енергийна криза", "високи цени на тока", "ВЕИ",
	"Маришки басейн", "АЕЦ Козлодуй", "ядрена енергетика", "климатични промени", "наводнения",
	"бедствено положение", "инфраструктурни щети", "катастрофи", "пътна безопасност",
	"магистрали", "БДЖ", "транспортна криза", "икономическа несигурност", "инвестиции",
	"ИТ сектор", "стартиращи компании", "недостиг на кадри", "пазар на труда", "стачки",
	"синдикати", "образование", "реформа в образованието", "PISA", "дигитализация",
	"електронно управление", "изкуствен интелект", "киберсигурност", "дезинформация",
	"фалшиви новини", "медийна среда", "здравеопазване", "здравна реформа", "НЗОК",
	"болници", "лекарства", "демографска криза", "емиграция", "раждаемост", "НАТО",
	"войната в Украйна", "подкрепа за Украйна", "санкции срещу Русия", "руско влияние",
	"протест", "митинг", "недоволство", "стачка", "бунт", "сблъсъци", "побой", "битка",
	"криза", "цени", "храна", "бензин", "горива", "сметки", "бедност", "оскъпяване",
	"училище", "университет", "образование", "студенти", "ученици", "преподаватели",
	"транспорт", "задръстване", "влак", "автобус", "пътна обстановка", "магистрала",
	"лична история", "трагедия", "съдба", "помощ", "дарение", "болест", "лечение",
	"арест", "полиция", "МВР", "акция", "разследване", "затвор", "престъпление",
	"корупция", "подкуп", "далавера", "злоупотреба", "кражба", "измама",
	"Запад", "САЩ", "Тръмп", "Путин", "Русия", "Украйна",
	"буря", "ураган", "вятър", "пожар", "наводнение",
}

// hotTerms mark sensational wording worth a small extra nudge.
var hotTerms = []string{
	"скандал", "шокиращо", "ексклузивно", "арест", "взрив", "убийство", "бомба",
	"извънредно", "атака", "кризисен", "санкции", "заплаха", "конфликт", "стачка",
	"недостиг", "поскъпване", "бедствие", "трагедия", "катастрофа", "разкритие",
	"мафия", "задкулисие", "олигарх", "преврат", "разследване", "спешно",
	"протест", "цени", "криза", "бой", "училище", "университет", "болница", "пари",
	"храна", "ток", "парно", "вода", "гориво", "заплати", "пенсии", "бедност",
}

// analysisMarkers flag commentary and opinion pieces.
var analysisMarkers = []string{"коментар", "анализ", "мнение", "позиция", "opinion"}

// Scorer computes relevance scores from the three weighted term sets.
// The zero value is not usable; construct with NewScorer.
type Scorer struct {
	priority []string
	standard []string
	hot      []string
}

// NewScorer builds a scorer over the default Bulgarian term sets, with
// optional overrides for any of them.
func NewScorer(priority, standard, hot []string) *Scorer {
	s := &Scorer{priority: priorityTerms, standard: standardTerms, hot: hotTerms}
	if len(priority) > 0 {
		s.priority = priority
	}
	if len(standard) > 0 {
		s.standard = standard
	}
	if len(hot) > 0 {
		s.hot = hot
	}
	return s
}

// Score sums weighted term hits over title and summary. Per term the
// normalized title is checked first; the summary only counts when the title
// does not contain the term.
func (s *Scorer) Score(title, summary string) int {
	titleNorm := textutil.Normalize(title)
	summaryNorm := textutil.Normalize(summary)

	score := 0
	score += scoreSet(titleNorm, summaryNorm, s.priority, priorityTitleWeight, prioritySummaryWeight)
	score += scoreSet(titleNorm, summaryNorm, s.standard, standardTitleWeight, standardSummaryWeight)
	score += scoreSet(titleNorm, summaryNorm, s.hot, hotTitleWeight, hotSummaryWeight)
	return score
}

func scoreSet(titleNorm, summaryNorm string, terms []string, titleWeight, summaryWeight int) int {
	score := 0
	for _, term := range terms {
		t := strings.ToLower(term)
		switch {
		case strings.Contains(titleNorm, t):
			score += titleWeight
		case strings.Contains(summaryNorm, t):
			score += summaryWeight
		}
	}
	return score
}

// DetectArticleType sniffs source name, title and link for commentary markers.
func DetectArticleType(source, title, link string) domain.ArticleType {
	haystack := strings.ToLower(source + " " + title + " " + link)
	for _, marker := range analysisMarkers {
		if strings.Contains(haystack, marker) {
			return domain.TypeAnalysis
		}
	}
	return domain.TypeNews
}
