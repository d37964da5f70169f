package match

// staticAliases maps historically observed raw names to the canonical catalog
// name no heuristic reliably reaches. Keys and values are in normalized form;
// the table is consulted after the structural resolvers and before generic
// scoring.
var staticAliases = map[string]string{
	"capp":            "cappuccino",
	"flat w":          "flat white",
	"esp martini":     "espresso martini",
	"virgin mary":     "bloody mary",
	"oj":              "orange juice",
	"aj":              "apple juice",
	"sparkling":       "sparkling water",
	"still":           "still water",
	"house red":       "house red wine",
	"house white":     "house white wine",
	"soya":            "soya milk",
	"decaff":          "decaf coffee",
	"babychino":       "babyccino",
	"chips":           "fries",
	"g and t":         "gin and tonic",
}
