package version

// Version is the release version of together-upload.
const Version = "0.2.0"
