package pathb

// Point has the same fields as geo.Point but is declared separately.
type Point struct{ X, Y int }
