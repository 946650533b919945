package loop

// Version is the current version of the loop module.
const Version = "1.0.0"
