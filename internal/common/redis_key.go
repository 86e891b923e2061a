package common

const RedisKeySettlementSweep = "settlement:sweep:lock"
