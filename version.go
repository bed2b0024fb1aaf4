package nvmlayout

// Version is the current nvmlayout version
const Version = "0.1.0"
