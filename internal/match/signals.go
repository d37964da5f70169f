package match

import "regexp"

// signalRule pairs a trigger pattern detected in the raw name with the
// pattern its scoring candidates must satisfy. Rules are a flat ordered
// table: the first trigger hit wins, and names matching no trigger are
// scored against the unrestricted catalog.
type signalRule struct {
	category   string
	trigger    *regexp.Regexp
	candidates *regexp.Regexp
}

var signalRules = []signalRule{
	{
		category:   "hot beverages",
		trigger:    regexp.MustCompile(`\b(coffee|latte|cappuccino|espresso|americano|macchiato|mocha|flat white|cortado|tea|chai|hot chocolate)\b`),
		candidates: regexp.MustCompile(`coffee|latte|cappuccino|espresso|americano|macchiato|mocha|flat white|cortado|tea|chai|hot chocolate|babyccino`),
	},
	{
		category:   "breakfast plates",
		trigger:    regexp.MustCompile(`\b(breakfast|brunch|benedict|omelette|eggs?|pancake|waffle|granola|porridge|avo toast)\b`),
		candidates: regexp.MustCompile(`breakfast|brunch|benedict|omelette|egg|pancake|waffle|granola|porridge|toast`),
	},
	{
		category:   "cocktails",
		trigger:    regexp.MustCompile(`\b(cocktail|mojito|margarita|martini|negroni|spritz|daiquiri|old fashioned|bellini|sour)\b`),
		candidates: regexp.MustCompile(`cocktail|mojito|margarita|martini|negroni|spritz|daiquiri|old fashioned|bellini|sour`),
	},
	{
		category:   "wines",
		trigger:    regexp.MustCompile(`\b(wine|merlot|malbec|rioja|shiraz|sauvignon|chardonnay|pinot|prosecco|champagne|rose|cava)\b`),
		candidates: regexp.MustCompile(`wine|merlot|malbec|rioja|shiraz|sauvignon|chardonnay|pinot|prosecco|champagne|rose|cava`),
	},
	{
		category:   "beers",
		trigger:    regexp.MustCompile(`\b(beer|lager|ipa|pale ale|ale|stout|pilsner|cider)\b`),
		candidates: regexp.MustCompile(`beer|lager|ipa|ale|stout|pilsner|cider`),
	},
	{
		category:   "soft drinks",
		trigger:    regexp.MustCompile(`\b(cola|coke|lemonade|juice|water|soda|tonic|squash|cordial|kombucha)\b`),
		candidates: regexp.MustCompile(`cola|coke|lemonade|juice|water|soda|tonic|squash|cordial|kombucha`),
	},
	{
		category:   "starters and tapas",
		trigger:    regexp.MustCompile(`\b(starter|tapas|nachos|wings|calamari|hummus|bruschetta|olives|croquetas|padron)\b`),
		candidates: regexp.MustCompile(`starter|tapas|nachos|wings|calamari|hummus|bruschetta|olives|croquetas|padron`),
	},
	{
		category:   "shakes",
		trigger:    regexp.MustCompile(`\b(shake|milkshake|smoothie|frappe)\b`),
		candidates: regexp.MustCompile(`shake|smoothie|frappe`),
	},
	{
		category:   "kids items",
		trigger:    regexp.MustCompile(`\b(kids?|children s?|junior|mini)\b`),
		candidates: regexp.MustCompile(`kids|junior|mini|babyccino`),
	},
	{
		category:   "add-ons",
		trigger:    regexp.MustCompile(`\b(extra|add|topping|side|syrup|shot)\b`),
		candidates: regexp.MustCompile(`extra|add|topping|side|syrup|shot|milk`),
	},
}

// signalFor returns the first rule whose trigger matches the normalized name.
func signalFor(normalized string) (*signalRule, bool) {
	for i := range signalRules {
		if signalRules[i].trigger.MatchString(normalized) {
			return &signalRules[i], true
		}
	}
	return nil, false
}
