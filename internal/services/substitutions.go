package services

import (
	"sort"
	"strings"
)

// maxSubstitutions caps every substitution suggestion list.
const maxSubstitutions = 5

// substitutionTable maps common ingredients to hand-picked substitutes.
// Keys are normalized lowercase singular-ish names.
var substitutionTable = map[string][]string{
	"butter":            {"margarine", "coconut oil", "olive oil", "ghee", "applesauce"},
	"milk":              {"almond milk", "soy milk", "oat milk", "coconut milk", "rice milk"},
	"egg":               {"flax egg", "chia egg", "applesauce", "mashed banana", "silken tofu"},
	"heavy cream":       {"coconut cream", "evaporated milk", "cashew cream", "greek yogurt"},
	"sour cream":        {"greek yogurt", "creme fraiche", "cottage cheese", "coconut cream"},
	"buttermilk":        {"milk with lemon juice", "milk with vinegar", "plain yogurt", "kefir"},
	"cream cheese":      {"mascarpone", "ricotta", "greek yogurt", "cottage cheese"},
	"yogurt":            {"sour cream", "creme fraiche", "buttermilk", "silken tofu"},
	"cheddar cheese":    {"colby", "monterey jack", "gouda", "gruyere"},
	"parmesan":          {"pecorino romano", "grana padano", "asiago", "nutritional yeast"},
	"all purpose flour": {"bread flour", "cake flour", "whole wheat flour", "spelt flour"},
	"wheat flour":       {"rice flour", "almond flour", "oat flour", "buckwheat flour"},
	"cornstarch":        {"arrowroot powder", "potato starch", "tapioca starch", "rice flour"},
	"breadcrumbs":       {"crushed crackers", "rolled oats", "panko", "crushed cornflakes"},
	"baking powder":     {"baking soda with cream of tartar", "self-rising flour"},
	"sugar":             {"honey", "maple syrup", "agave nectar", "coconut sugar", "brown sugar"},
	"brown sugar":       {"white sugar with molasses", "coconut sugar", "maple sugar"},
	"honey":             {"maple syrup", "agave nectar", "brown rice syrup", "molasses"},
	"olive oil":         {"canola oil", "avocado oil", "grapeseed oil", "sunflower oil"},
	"vegetable oil":     {"canola oil", "melted butter", "coconut oil", "applesauce"},
	"sesame oil":        {"perilla oil", "walnut oil", "peanut oil"},
	"chicken":           {"turkey", "tofu", "seitan", "chickpeas", "tempeh"},
	"beef":              {"lamb", "bison", "mushrooms", "lentils", "jackfruit"},
	"pork":              {"chicken thigh", "turkey", "tempeh", "jackfruit"},
	"bacon":             {"pancetta", "prosciutto", "turkey bacon", "smoked tempeh"},
	"ground beef":       {"ground turkey", "ground chicken", "lentils", "crumbled tofu"},
	"shrimp":            {"scallops", "crab", "firm white fish", "king oyster mushrooms"},
	"fish sauce":        {"soy sauce", "worcestershire sauce", "miso paste"},
	"soy sauce":         {"tamari", "coconut aminos", "worcestershire sauce", "miso paste"},
	"worcestershire":    {"soy sauce", "fish sauce", "balsamic vinegar"},
	"white wine":        {"chicken broth", "apple cider vinegar", "white grape juice"},
	"red wine":          {"beef broth", "pomegranate juice", "red wine vinegar", "grape juice"},
	"lemon juice":       {"lime juice", "white wine vinegar", "apple cider vinegar"},
	"vinegar":           {"lemon juice", "lime juice", "white wine"},
	"tomato":            {"canned tomatoes", "tomato passata", "red bell pepper"},
	"tomato paste":      {"ketchup", "tomato sauce reduced", "sun-dried tomato puree"},
	"onion":             {"shallot", "leek", "scallion", "onion powder"},
	"garlic":            {"garlic powder", "shallot", "garlic chives", "asafoetida"},
	"ginger":            {"ground ginger", "galangal", "allspice"},
	"basil":             {"oregano", "thyme", "tarragon", "spinach"},
	"cilantro":          {"parsley", "basil", "mint", "celery leaves"},
	"parsley":           {"cilantro", "chervil", "celery leaves", "carrot tops"},
	"mushroom":          {"eggplant", "zucchini", "tofu", "sun-dried tomatoes"},
	"rice":              {"quinoa", "couscous", "barley", "cauliflower rice", "bulgur"},
	"pasta":             {"zucchini noodles", "spaghetti squash", "rice noodles", "shirataki"},
}

// ingredientCategories groups related ingredients; a category member's
// neighbors serve as a fallback when the table has no direct entry.
var ingredientCategories = map[string][]string{
	"oils":        {"olive oil", "canola oil", "vegetable oil", "coconut oil", "avocado oil", "sesame oil", "sunflower oil"},
	"dairy":       {"milk", "butter", "cream", "yogurt", "sour cream", "buttermilk", "cream cheese"},
	"cheeses":     {"cheddar cheese", "parmesan", "mozzarella", "gouda", "feta", "ricotta"},
	"flours":      {"all purpose flour", "wheat flour", "bread flour", "almond flour", "rice flour", "oat flour"},
	"sweeteners":  {"sugar", "brown sugar", "honey", "maple syrup", "agave nectar", "molasses"},
	"poultry":     {"chicken", "turkey", "duck", "quail"},
	"red meats":   {"beef", "pork", "lamb", "ground beef", "bacon"},
	"seafood":     {"shrimp", "salmon", "tuna", "cod", "scallops", "crab"},
	"plant bases": {"tofu", "tempeh", "seitan", "lentils", "chickpeas", "jackfruit"},
	"alliums":     {"onion", "garlic", "shallot", "leek", "scallion", "chives"},
	"herbs":       {"basil", "cilantro", "parsley", "oregano", "thyme", "rosemary", "mint"},
	"spices":      {"cumin", "paprika", "ginger", "turmeric", "cinnamon", "nutmeg", "coriander"},
	"grains":      {"rice", "quinoa", "couscous", "barley", "bulgur", "pasta"},
	"acids":       {"lemon juice", "lime juice", "vinegar", "white wine", "red wine"},
}

// SuggestSubstitutions returns up to five substitutes for an ingredient.
// Lookup stages: direct/substring table hit, singular/plural table hit,
// category neighbors, then a last-resort three-character prefix match.
// Nothing at any stage yields an empty list, never an error.
func SuggestSubstitutions(ingredient string) []string {
	name := normalizeText(ingredient)
	if name == "" {
		return []string{}
	}

	if subs := tableLookup(name); len(subs) > 0 {
		return capSubs(subs)
	}

	if subs := tableLookup(singularize(name)); len(subs) > 0 {
		return capSubs(subs)
	}
	if subs := tableLookup(name + "s"); len(subs) > 0 {
		return capSubs(subs)
	}

	if subs := categoryLookup(name); len(subs) > 0 {
		return capSubs(subs)
	}

	if subs := prefixLookup(name); len(subs) > 0 {
		return capSubs(subs)
	}

	return []string{}
}

// tableLookup finds an exact key first, then a substring hit in either
// direction against the table keys, preferring the longest overlapping key.
func tableLookup(name string) []string {
	if subs, ok := substitutionTable[name]; ok {
		return subs
	}

	var bestKey string
	for key := range substitutionTable {
		if strings.Contains(name, key) || strings.Contains(key, name) {
			if len(key) > len(bestKey) {
				bestKey = key
			}
		}
	}
	if bestKey != "" {
		return substitutionTable[bestKey]
	}
	return nil
}

func categoryLookup(name string) []string {
	singular := singularize(name)

	categories := make([]string, 0, len(ingredientCategories))
	for category := range ingredientCategories {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		members := ingredientCategories[category]
		found := false
		for _, member := range members {
			if member == name || member == singular || singularize(member) == singular {
				found = true
				break
			}
		}
		if !found {
			continue
		}

		var subs []string
		for _, member := range members {
			if member == name || member == singular || singularize(member) == singular {
				continue
			}
			subs = append(subs, member)
		}
		return subs
	}
	return nil
}

// prefixLookup matches the first three characters against table keys.
func prefixLookup(name string) []string {
	if len(name) < 3 {
		return nil
	}
	prefix := name[:3]

	keys := make([]string, 0, len(substitutionTable))
	for key := range substitutionTable {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			return substitutionTable[key]
		}
	}
	return nil
}

func capSubs(subs []string) []string {
	if len(subs) > maxSubstitutions {
		subs = subs[:maxSubstitutions]
	}
	out := make([]string, len(subs))
	copy(out, subs)
	return out
}
