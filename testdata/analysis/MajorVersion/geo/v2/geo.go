package geo

type Point struct{ X, Y, Z int }
