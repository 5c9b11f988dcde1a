package specificity

//go:generate go tool go-enum --marshal --names --values

// How selector lists inside functional pseudo-classes and rule preludes are
// split into individual selectors. Naive splits on every comma and ends a
// functional argument at the first closing parenthesis, nested tracks
// parenthesis, bracket and quote depth.
// ENUM(naive, nested)
type SplitMode int
