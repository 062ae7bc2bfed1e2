package reconcile

const (
	WelcomeMessage  = "Hello. Welcome to the Guest Wi-Fi Demo App."
	AlreadyResponse = "You have already responded to this request"
)

func DeviceAddedMessage(serial string) string {
	return serial + " added to Guest Wi-Fi Demo App."
}

func DeviceRemovedMessage(serial string) string {
	return serial + " removed from Guest Wi-Fi Demo App."
}
