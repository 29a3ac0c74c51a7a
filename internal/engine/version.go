package engine

// Version is stamped on recorded runs so documents produced by different
// evaluation rules can be told apart.
const Version = "0.1.0"
