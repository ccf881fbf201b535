package events

// Topic names shared by the kafka and redis-stream publishers.
const (
	TopicParticipantAdmitted = "raffle_participant_admitted"
	TopicSettlementStarted   = "raffle_settlement_started"
	TopicWinnerSelected      = "raffle_winner_selected"
)
