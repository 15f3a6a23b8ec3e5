package config

type WorkerKeyStruct struct {
	QuizStatsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	QuizStatsQueue: "persist_quiz_stats_queue",
}
